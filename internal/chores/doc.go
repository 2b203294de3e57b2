// Package chores hands finished projects to external tools: git, uv, venv,
// pip and pre-commit. Commands are plain values built by the sequence
// functions and executed by a Runner, so tests can swap in a fake.
package chores
