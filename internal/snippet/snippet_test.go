package snippet

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

const corpus = `priority -50

snippet greet "a greeting" b
Hello, $1!
Welcome to $2.
endsnippet

snippet greeting "must not match greet" b
wrong block
endsnippet

snippet empty "label only"
endsnippet

snippet chain "order dependent" b
$1 and $2
endsnippet
`

func TestExtractDropsLabelLine(t *testing.T) {
	got, ok := Extract(corpus, "greet")
	if !ok {
		t.Fatal("Extract(greet) not found")
	}
	want := "Hello, $1!\nWelcome to $2.\n"
	if got != want {
		t.Errorf("Extract(greet) = %q, want %q", got, want)
	}
}

func TestExtractRequiresWholeTrigger(t *testing.T) {
	got, ok := Extract(corpus, "greeting")
	if !ok {
		t.Fatal("Extract(greeting) not found")
	}
	if got != "wrong block\n" {
		t.Errorf("Extract(greeting) = %q", got)
	}

	if _, ok := Extract(corpus, "gree"); ok {
		t.Error("Extract(gree) should not match a longer trigger")
	}
}

func TestExtractFirstEndMarkerWins(t *testing.T) {
	text := "snippet a x\nfirst\nendsnippet\nsnippet b y\nsecond\nendsnippet\n"
	got, ok := Extract(text, "a")
	if !ok || got != "first\n" {
		t.Errorf("Extract(a) = %q, %v", got, ok)
	}
}

func TestExtractLabelOnlyBlock(t *testing.T) {
	got, ok := Extract(corpus, "empty")
	if !ok {
		t.Fatal("Extract(empty) not found")
	}
	if got != "" {
		t.Errorf("Extract(empty) = %q, want empty body", got)
	}
}

func TestExtractIsCaseSensitive(t *testing.T) {
	if _, ok := Extract(corpus, "GREET"); ok {
		t.Error("Extract should be case-sensitive")
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		body string
		subs []Sub
		want string
	}{
		{
			name: "no substitutions",
			body: "a $1 b",
			want: "a $1 b",
		},
		{
			name: "positional slots",
			body: "$1-$2",
			subs: []Sub{Slot(1, "x"), Slot(2, "y")},
			want: "x-y",
		},
		{
			name: "slot value with dollar is literal",
			body: "cost: $1",
			subs: []Sub{Slot(1, "$5")},
			want: "cost: $5",
		},
		{
			name: "empty replacement",
			body: `venv = "./venv"$2`,
			subs: []Sub{Slot(2, "")},
			want: `venv = "./venv"`,
		},
		{
			name: "capture groups in raw rules",
			body: "key = value",
			subs: []Sub{Raw(`(\w+) = (\w+)`, "$2 = $1")},
			want: "value = key",
		},
		{
			name: "later rule sees earlier output",
			body: "$1 and $2",
			subs: []Sub{Raw(`\$1`, "$$2"), Slot(2, "two")},
			want: "two and two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.body, tt.subs...)
			if err != nil {
				t.Fatalf("Apply() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Apply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyIndependentRulesCommute(t *testing.T) {
	body := "$1 $2 $3 $2 $1"
	subs := []Sub{Slot(1, "one"), Slot(2, "two"), Slot(3, "three")}
	reversed := []Sub{subs[2], subs[1], subs[0]}

	a, err := Apply(body, subs...)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Apply(body, reversed...)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("order changed result: %q vs %q", a, b)
	}
}

func TestApplyBadPattern(t *testing.T) {
	if _, err := Apply("x", Raw("(", "")); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestSelectFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.snippets")
	if err := os.WriteFile(path, []byte(corpus), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Select(path, "greet", Slot(1, "demo"), Slot(2, "A demo."))
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if got != "Hello, demo!\nWelcome to A demo..\n" {
		t.Errorf("Select() = %q", got)
	}
}

func TestSelectNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.snippets")
	if err := os.WriteFile(path, []byte(corpus), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Select(path, "missing")
	if err == nil {
		t.Fatalf("expected error, got %q", got)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error should match ErrNotFound: %v", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error should be *NotFoundError: %T", err)
	}
	if nf.Trigger != "missing" || nf.Corpus != path {
		t.Errorf("NotFoundError = %+v", nf)
	}
	if !strings.Contains(err.Error(), "missing") || !strings.Contains(err.Error(), path) {
		t.Errorf("error should name trigger and corpus: %v", err)
	}
}

func TestSelectMissingCorpus(t *testing.T) {
	_, err := Select(filepath.Join(t.TempDir(), "nope.snippets"), "greet")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestSelectEmptyTrigger(t *testing.T) {
	store := NewStore(fstest.MapFS{"c.snippets": {Data: []byte(corpus)}}, "mem")
	if _, err := store.Select("c.snippets", ""); err == nil {
		t.Error("expected error for empty trigger")
	}
}

func TestStoreRereadsCorpus(t *testing.T) {
	fsys := fstest.MapFS{"c.snippets": {Data: []byte("snippet a x\nold\nendsnippet\n")}}
	store := NewStore(fsys, "mem")

	first, err := store.Select("c.snippets", "a")
	if err != nil {
		t.Fatal(err)
	}
	fsys["c.snippets"] = &fstest.MapFile{Data: []byte("snippet a x\nnew\nendsnippet\n")}
	second, err := store.Select("c.snippets", "a")
	if err != nil {
		t.Fatal(err)
	}
	if first != "old\n" || second != "new\n" {
		t.Errorf("got %q then %q", first, second)
	}
}

func TestStoreNotFoundNamesLocation(t *testing.T) {
	store := NewStore(fstest.MapFS{"c.snippets": {Data: []byte(corpus)}}, "mem")
	_, err := store.Select("c.snippets", "nope")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Corpus != "mem/c.snippets" {
		t.Errorf("Corpus = %q", nf.Corpus)
	}
}

func TestTriggers(t *testing.T) {
	got := Triggers(corpus)
	want := []string{"greet", "greeting", "empty", "chain"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Triggers() = %v, want %v", got, want)
	}
}

func TestTriggersMatchExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"tab after keyword", "snippet\tcz \"label\"\nbody\nendsnippet\n", nil},
		{"no end marker", "snippet cz \"label\"\nbody\n", nil},
		{"duplicate block", "snippet cz\na\nendsnippet\nsnippet cz\nb\nendsnippet\n", []string{"cz"}},
		{"second block unterminated", "snippet a\nx\nendsnippet\nsnippet b\ny\n", []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Triggers(tt.text)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Triggers() = %v, want %v", got, tt.want)
			}
			for _, trigger := range []string{"cz", "a", "b"} {
				_, ok := Extract(tt.text, trigger)
				listed := false
				for _, g := range got {
					listed = listed || g == trigger
				}
				if ok != listed {
					t.Errorf("Extract(%q) ok = %v but listed = %v", trigger, ok, listed)
				}
			}
		})
	}
}

func TestBuiltinCorpora(t *testing.T) {
	store := Builtin()
	want := map[string][]string{
		TOML:   {"pyproject", "cz", "isort", "tox", "pyright"},
		YAML:   {"pre-commit-config"},
		JSON:   {"vimspector"},
		Vim:    {"local"},
		PS1:    {"update_venv"},
		Python: {"conftest"},
	}
	for corpus, triggers := range want {
		for _, trigger := range triggers {
			body, err := store.Select(corpus, trigger)
			if err != nil {
				t.Errorf("Select(%s, %s) error: %v", corpus, trigger, err)
				continue
			}
			if strings.HasPrefix(body, "snippet") || strings.Contains(body, "endsnippet") {
				t.Errorf("Select(%s, %s) leaked markers:\n%s", corpus, trigger, body)
			}
		}
	}
}
