package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"ledgerscript.dev/core/config"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run reads one JSON request from stdin and writes one JSON response to
// stdout. Logs go to stderr. The exit status is nonzero only when the
// command line or config file is unusable.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ledgerscript-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to JSON config file")
	logLevel := fs.String("log-level", "", "log level (trace, debug, info, warn, error, critical, off)")
	trace := fs.Bool("trace", false, "trace every executed instruction")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "config: %v\n", err)
			return 2
		}
		cfg = loaded
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *trace {
		cfg.TraceExecution = true
	}
	if err := config.ValidateConfig(cfg); err != nil {
		_, _ = fmt.Fprintf(stderr, "config: %v\n", err)
		return 2
	}
	config.NewLogBackend(stderr, cfg)

	raw, err := io.ReadAll(io.LimitReader(stdin, int64(cfg.MaxRequestBytes)+1))
	if err != nil {
		writeResp(stdout, Response{Ok: false, Err: fmt.Sprintf("read request: %v", err)})
		return 0
	}
	if len(raw) > cfg.MaxRequestBytes {
		writeResp(stdout, Response{Ok: false, Err: fmt.Sprintf("request exceeds %d bytes", cfg.MaxRequestBytes)})
		return 0
	}

	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		writeResp(stdout, Response{Ok: false, Err: fmt.Sprintf("bad request: %v", err)})
		return 0
	}
	writeResp(stdout, handle(req))
	return 0
}
