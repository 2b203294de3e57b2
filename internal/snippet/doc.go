// Package snippet reads named template blocks out of snippet corpora. A corpus
// is a plain text file holding any number of blocks of the form
//
//	snippet <trigger> <label...>
//	<body>
//	endsnippet
//
// Select finds the first block for a trigger, drops the label line and applies
// positional substitutions to the body. Corpora are re-read on every call.
package snippet
