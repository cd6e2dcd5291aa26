/*
Package script implements the ledger's stack-based authorization bytecode.

A Script is an immutable byte string. Scripts are built with a
ScriptBuilder, parsed from raw or hex bytes, or assembled from text, and
are run by an Engine. There are two entrypoints: Engine.Run executes a
single script and returns the element left on top of the data stack, and
Engine.Verify executes an unlocking script followed by the locking script
it spends, over one shared data stack. Each run constructs a disposable
virtualMachine, so no execution state outlives a call.

The program is interpreted instruction by instruction by the main loop in
virtualMachine.run(). Opcodes fall into the following categories:
  - control (constants, pushes, conditionals, VERIFY, RETURN)
  - stack
  - splice (SIZE, EQUAL)
  - numeric
  - crypto (hashes and signature checks)
  - locktime
Each category has a corresponding .go file implementing those opcodes.
The opcode table in opcode.go gives every byte value a handler, so
unassigned, disabled and reserved values fail deterministically.

Resource use is bounded before each instruction acts: scripts are at
most 10000 bytes, a run executes at most 201 counted opcodes, the
data stack holds at most 1000 elements, and no element exceeds 520
bytes. Stack-resident integers use the canonical ScriptNum encoding.
*/
package script
