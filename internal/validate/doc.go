// Package validate checks generated project files. YAML and JSON outputs are
// validated against embedded JSON Schemas; TOML outputs must parse. Problems
// are reported as issues, not errors, so that generation can carry on and
// surface them as warnings.
package validate
