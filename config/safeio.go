package config

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Config files are small; anything larger is not a config file.
const maxConfigFileBytes = 1 << 20

// readConfigFile opens path through a directory filesystem rooted at its
// parent so the base name cannot escape it.
func readConfigFile(path string) ([]byte, error) {
	return readFileFromDir(filepath.Dir(path), filepath.Base(path))
}

func readFileFromDir(dir, name string) ([]byte, error) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return nil, errors.Errorf("invalid file name: %q", name)
	}
	f, err := os.DirFS(dir).Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !st.Mode().IsRegular() {
		return nil, errors.Errorf("%s is not a regular file", name)
	}
	raw, err := io.ReadAll(io.LimitReader(f, maxConfigFileBytes+1))
	if err != nil {
		return nil, err
	}
	if len(raw) > maxConfigFileBytes {
		return nil, errors.Errorf("%s exceeds %d bytes", name, maxConfigFileBytes)
	}
	return raw, nil
}
