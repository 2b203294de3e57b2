package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/apex/log"

	"github.com/agentx-labs/pyseed/internal/platform"
	"github.com/agentx-labs/pyseed/internal/project"
	"github.com/agentx-labs/pyseed/internal/snippet"
	"github.com/agentx-labs/pyseed/internal/validate"
)

// Result holds the outcome of an assembly.
type Result struct {
	Root     string
	Files    []string
	Warnings []string
}

// Planned is a rendered catalog entry that has not been written.
type Planned struct {
	Path    string
	Mode    WriteMode
	Content string
}

// Assembler writes a strategy's catalog under a project root.
type Assembler struct {
	Store *snippet.Store
}

// NewAssembler returns an Assembler reading corpora from store, or from the
// builtin corpora when store is nil.
func NewAssembler(store *snippet.Store) *Assembler {
	if store == nil {
		store = snippet.Builtin()
	}
	return &Assembler{Store: store}
}

// Assemble renders and writes every file in the strategy's catalog, in
// catalog order. The first failure stops the run; files written before it
// stay on disk. A file is only opened once its content is fully rendered.
func (a *Assembler) Assemble(cfg *project.Config, s Strategy) (*Result, error) {
	root := cfg.Root()
	result := &Result{Root: root}

	for _, f := range s.Catalog(cfg) {
		dest := filepath.Join(root, filepath.FromSlash(f.Path))
		content, err := a.content(dest, f)
		if err != nil {
			return result, err
		}
		if err := write(dest, content, f.perm()); err != nil {
			return result, err
		}
		log.Debugf("%s %s", f.Mode, dest)
		result.Files = append(result.Files, f.Path)
		result.Warnings = append(result.Warnings, check(f.Path, content)...)
	}
	return result, nil
}

func (a *Assembler) content(dest string, f File) (string, error) {
	text, err := Render(a.Store, f)
	if err != nil {
		return "", err
	}
	if f.Mode != Append {
		return text, nil
	}
	existing, err := os.ReadFile(dest)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("reading %s: %w", dest, err)
	}
	text, err = runPost(merge(string(existing), text), f.Post)
	if err != nil {
		return "", fmt.Errorf("updating %s: %w", f.Path, err)
	}
	return text, nil
}

// Plan renders the catalog without touching disk. Append entries show only
// the section that would be appended.
func (a *Assembler) Plan(cfg *project.Config, s Strategy) ([]Planned, error) {
	var out []Planned
	for _, f := range s.Catalog(cfg) {
		text, err := Render(a.Store, f)
		if err != nil {
			return nil, err
		}
		out = append(out, Planned{Path: f.Path, Mode: f.Mode, Content: text})
	}
	return out, nil
}

func write(dest, content string, perm os.FileMode) error {
	return platform.WriteFile(dest, []byte(content), perm)
}

func check(rel, content string) []string {
	res, err := validate.Bytes(path.Base(rel), []byte(content))
	if err != nil {
		return []string{fmt.Sprintf("%s: could not validate: %v", rel, err)}
	}
	var warnings []string
	for _, issue := range res.Issues {
		warnings = append(warnings, rel+": "+issue.String())
	}
	return warnings
}
