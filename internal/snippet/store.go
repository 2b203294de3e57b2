package snippet

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
)

//go:embed builtin/*.snippets
var builtinFS embed.FS

// Corpus file names used by the project catalog.
const (
	TOML   = "toml.snippets"
	YAML   = "yaml.snippets"
	JSON   = "json.snippets"
	Vim    = "vim.snippets"
	PS1    = "ps1.snippets"
	Python = "python.snippets"
)

// Store resolves corpus names against a file system.
type Store struct {
	fsys fs.FS
	name string
}

// NewStore returns a Store over fsys. name is used in error messages.
func NewStore(fsys fs.FS, name string) *Store {
	return &Store{fsys: fsys, name: name}
}

// Dir returns a Store reading corpora from a directory on disk, e.g. an
// UltiSnips directory.
func Dir(dir string) *Store {
	return NewStore(os.DirFS(dir), dir)
}

// Builtin returns a Store over the corpora compiled into the binary.
func Builtin() *Store {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		panic(fmt.Sprintf("builtin snippets: %v", err))
	}
	return NewStore(sub, "builtin")
}

// Name returns the store location shown to users.
func (s *Store) Name() string {
	return s.name
}

// Location returns a display path for a corpus in this store.
func (s *Store) Location(corpus string) string {
	return path.Join(s.name, corpus)
}

// Read returns the full text of a corpus.
func (s *Store) Read(corpus string) (string, error) {
	data, err := fs.ReadFile(s.fsys, corpus)
	if err != nil {
		return "", fmt.Errorf("reading corpus %s: %w", s.Location(corpus), err)
	}
	return string(data), nil
}

// Select returns the substituted body of the block named trigger in corpus.
// The corpus is read on every call.
func (s *Store) Select(corpus, trigger string, subs ...Sub) (string, error) {
	text, err := s.Read(corpus)
	if err != nil {
		return "", err
	}
	return selectFrom(text, s.Location(corpus), trigger, subs)
}

// Triggers lists the triggers defined in corpus.
func (s *Store) Triggers(corpus string) ([]string, error) {
	text, err := s.Read(corpus)
	if err != nil {
		return nil, err
	}
	return Triggers(text), nil
}
