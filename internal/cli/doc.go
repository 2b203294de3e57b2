// Package cli defines the Cobra command tree for pyseed. Each file builds one
// top-level command; the commands parse flags, ask for missing answers and
// print results, and leave the work to the internal packages.
package cli
