// Package project holds the resolved answers that drive project generation.
// A Config is built once from raw input by New and never changes afterwards;
// the version range, environment matrix and paths are derived on demand from
// the stored fields.
package project
