// Package scaffold lays out a new Python project from snippet corpora.
//
// A Strategy supplies the catalog of files for a project: which corpus and
// triggers feed each file, how multi-block files are joined, and the post
// steps applied to the rendered text. The Assembler renders each file fully
// in memory, writes it under the project root, and checks the result with
// package validate. Validation problems are reported as warnings.
package scaffold
