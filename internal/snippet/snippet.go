package snippet

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = errors.New("snippet not found")

// NotFoundError reports a trigger that has no block in a corpus.
type NotFoundError struct {
	Trigger string
	Corpus  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("snippet %s not found in %s", e.Trigger, e.Corpus)
}

// Is makes errors.Is(err, ErrNotFound) true for any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Sub is a single substitution rule. Pattern is a regular expression;
// Replacement may reference capture groups with $1 or ${name}.
type Sub struct {
	Pattern     string
	Replacement string
}

// Slot returns a rule replacing the positional marker $n with value. Dollar
// signs in value are escaped so the value is inserted literally.
func Slot(n int, value string) Sub {
	return Sub{
		Pattern:     `\$` + strconv.Itoa(n),
		Replacement: strings.ReplaceAll(value, "$", "$$"),
	}
}

// Raw returns a rule whose replacement keeps capture-group expansion.
func Raw(pattern, replacement string) Sub {
	return Sub{Pattern: pattern, Replacement: replacement}
}

var triggerLine = regexp.MustCompile(`(?m)^snippet (\S+)`)

// Select reads the corpus file at corpusPath and returns the substituted body
// of the block named trigger.
func Select(corpusPath, trigger string, subs ...Sub) (string, error) {
	data, err := os.ReadFile(corpusPath)
	if err != nil {
		return "", fmt.Errorf("reading corpus %s: %w", corpusPath, err)
	}
	return selectFrom(string(data), corpusPath, trigger, subs)
}

func selectFrom(text, corpus, trigger string, subs []Sub) (string, error) {
	if trigger == "" {
		return "", fmt.Errorf("empty snippet trigger for %s", corpus)
	}
	body, ok := Extract(text, trigger)
	if !ok {
		return "", &NotFoundError{Trigger: trigger, Corpus: corpus}
	}
	return Apply(body, subs...)
}

// Extract scans text for the first block named trigger and returns its body
// with the label line removed. The scan is case-sensitive and the first
// endsnippet after the start marker closes the block.
func Extract(text, trigger string) (string, bool) {
	re, err := regexp.Compile(`(?s)snippet ` + regexp.QuoteMeta(trigger) + `(\s.*?)?endsnippet`)
	if err != nil {
		return "", false
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	lines := strings.Split(m[1], "\n")
	return strings.Join(lines[1:], "\n"), true
}

// Apply runs each rule against the whole body in the order given. A rule may
// match text produced by an earlier rule.
func Apply(body string, subs ...Sub) (string, error) {
	for _, s := range subs {
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return "", fmt.Errorf("compiling substitution %q: %w", s.Pattern, err)
		}
		body = re.ReplaceAllString(body, s.Replacement)
	}
	return body, nil
}

// Triggers lists the trigger of every block in text, in corpus order. Only
// triggers that Extract can resolve are listed, each once.
func Triggers(text string) []string {
	var out []string
	for _, m := range triggerLine.FindAllStringSubmatch(text, -1) {
		if slices.Contains(out, m[1]) {
			continue
		}
		if _, ok := Extract(text, m[1]); ok {
			out = append(out, m[1])
		}
	}
	return out
}
