package scaffold

import (
	"fmt"
	"os"
	"strings"

	"github.com/agentx-labs/pyseed/internal/snippet"
)

// WriteMode selects how rendered text meets an existing file.
type WriteMode int

const (
	// Overwrite replaces the file.
	Overwrite WriteMode = iota
	// Append adds the rendered text after the existing content, separated by
	// one blank line.
	Append
)

func (m WriteMode) String() string {
	if m == Append {
		return "append"
	}
	return "write"
}

// Post transforms rendered text.
type Post func(string) (string, error)

// Block is one trigger pulled from a file's corpus.
type Block struct {
	Trigger string
	Subs    []snippet.Sub
	Post    []Post
}

// File is one catalog entry. A File with no Blocks is plain: its content is
// Literal and no corpus is read.
type File struct {
	Path    string // slash-separated, relative to the project root
	Corpus  string
	Blocks  []Block
	Literal string
	// Post runs on the complete file content, after any Append merge.
	Post []Post
	Mode WriteMode
	Perm os.FileMode
}

// Plain reports whether the file is generated without a corpus.
func (f File) Plain() bool {
	return len(f.Blocks) == 0
}

// Triggers returns the triggers the file pulls, in order.
func (f File) Triggers() []string {
	out := make([]string, 0, len(f.Blocks))
	for _, b := range f.Blocks {
		out = append(out, b.Trigger)
	}
	return out
}

func (f File) perm() os.FileMode {
	if f.Perm == 0 {
		return 0o644
	}
	return f.Perm
}

// Render produces the text f contributes. A single block is used as
// extracted; several blocks are joined by one blank line and the result ends
// with a single newline. File-level Post steps run here for Overwrite files;
// for Append files they need the merged content and run in Assemble.
func Render(store *snippet.Store, f File) (string, error) {
	text, err := renderBlocks(store, f)
	if err != nil {
		return "", err
	}
	if f.Mode == Overwrite {
		return runPost(text, f.Post)
	}
	return text, nil
}

func renderBlocks(store *snippet.Store, f File) (string, error) {
	if f.Plain() {
		return f.Literal, nil
	}
	parts := make([]string, 0, len(f.Blocks))
	for _, b := range f.Blocks {
		body, err := store.Select(f.Corpus, b.Trigger, b.Subs...)
		if err != nil {
			return "", fmt.Errorf("rendering %s: %w", f.Path, err)
		}
		body, err = runPost(body, b.Post)
		if err != nil {
			return "", fmt.Errorf("rendering %s block %s: %w", f.Path, b.Trigger, err)
		}
		parts = append(parts, body)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	for i, p := range parts {
		parts[i] = trimNewlines(p)
	}
	return strings.Join(parts, "\n\n") + "\n", nil
}

func runPost(text string, steps []Post) (string, error) {
	for _, step := range steps {
		var err error
		if text, err = step(text); err != nil {
			return "", err
		}
	}
	return text, nil
}

// merge joins existing content and an appended section with one blank line.
func merge(existing, section string) string {
	if strings.TrimSpace(existing) == "" {
		return section
	}
	return trimNewlines(existing) + "\n\n" + section
}

func trimNewlines(s string) string {
	return strings.TrimRight(s, "\r\n")
}

// ReplaceLiteral replaces every occurrence of old with repl.
func ReplaceLiteral(old, repl string) Post {
	return func(s string) (string, error) {
		return strings.ReplaceAll(s, old, repl), nil
	}
}

// InsertAfterLine inserts line after the first line containing marker. It
// fails when no line contains marker.
func InsertAfterLine(marker, line string) Post {
	return func(s string) (string, error) {
		lines := strings.SplitAfter(s, "\n")
		for i, l := range lines {
			if !strings.Contains(l, marker) {
				continue
			}
			eol := "\n"
			if strings.HasSuffix(l, "\r\n") {
				eol = "\r\n"
			}
			if !strings.HasSuffix(l, "\n") {
				lines[i] = l + eol
			}
			out := append([]string{}, lines[:i+1]...)
			out = append(out, line+eol)
			out = append(out, lines[i+1:]...)
			return strings.Join(out, ""), nil
		}
		return "", fmt.Errorf("no line containing %q", marker)
	}
}
