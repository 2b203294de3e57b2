// Package prompt asks the user for the project answers that were not given
// on the command line.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/agentx-labs/pyseed/internal/project"
)

// Question is one prompt. An empty answer yields Default.
type Question struct {
	Label    string
	Default  string
	Validate func(string) error
}

// Asker collects answers.
type Asker interface {
	Ask(q Question) (string, error)
	Choose(label string, items []string) (string, error)
}

// ConsoleAsker prompts on the terminal with promptui.
type ConsoleAsker struct{}

func (ConsoleAsker) Ask(q Question) (string, error) {
	p := promptui.Prompt{Label: q.Label, Default: q.Default}
	if q.Validate != nil {
		p.Validate = func(s string) error { return q.Validate(strings.TrimSpace(s)) }
	}
	answer, err := p.Run()
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return q.Default, nil
	}
	return answer, nil
}

func (ConsoleAsker) Choose(label string, items []string) (string, error) {
	s := promptui.Select{Label: label, Items: items, HideSelected: true}
	_, item, err := s.Run()
	return item, err
}

// LineAsker reads one answer per line. It is used when stdin is not a
// terminal.
type LineAsker struct {
	r *bufio.Reader
	w io.Writer
}

func NewLineAsker(r io.Reader, w io.Writer) *LineAsker {
	return &LineAsker{r: bufio.NewReader(r), w: w}
}

// Ask prints the label and reads a line. Invalid answers are reported and
// asked again until input runs out.
func (a *LineAsker) Ask(q Question) (string, error) {
	for {
		if q.Default != "" {
			fmt.Fprintf(a.w, "%s [%s]: ", q.Label, q.Default)
		} else {
			fmt.Fprintf(a.w, "%s: ", q.Label)
		}
		line, err := a.r.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return "", fmt.Errorf("reading %s: %w", strings.ToLower(q.Label), err)
		}
		answer := strings.TrimSpace(line)
		if answer == "" {
			answer = q.Default
		}
		if q.Validate == nil {
			return answer, nil
		}
		verr := q.Validate(answer)
		if verr == nil {
			return answer, nil
		}
		fmt.Fprintf(a.w, "  %v\n", verr)
		if err != nil {
			return "", verr
		}
	}
}

// Choose prints a numbered menu and reads the selection.
func (a *LineAsker) Choose(label string, items []string) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("%s: nothing to choose from", label)
	}
	fmt.Fprintf(a.w, "\n%s\n", label)
	for i, item := range items {
		fmt.Fprintf(a.w, "  %d) %s\n", i+1, item)
	}
	fmt.Fprintf(a.w, "Enter number [1-%d]: ", len(items))

	line, err := a.r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("reading selection: %w", err)
	}
	num, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || num < 1 || num > len(items) {
		return "", fmt.Errorf("invalid selection %q: choose 1-%d", strings.TrimSpace(line), len(items))
	}
	return items[num-1], nil
}

// Given marks the Input fields that already hold an answer.
type Given struct {
	Name, Description, MinMinor, MaxMinor, Deps, DevDeps bool
}

// NoDevDeps is the answer that selects an empty dev dependency list.
const NoDevDeps = "none"

func minorVersion(optional bool) func(string) error {
	return func(s string) error {
		if s == "" && optional {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimPrefix(s, "3."))
		if err != nil || n < 0 {
			return fmt.Errorf("enter the n in 3.n, e.g. 11")
		}
		return nil
	}
}

// Fill asks for every field not marked in given and returns the completed
// Input.
func Fill(a Asker, in project.Input, given Given) (project.Input, error) {
	var err error
	ask := func(done bool, dst *string, q Question) {
		if err != nil || done {
			return
		}
		*dst, err = a.Ask(q)
	}

	ask(given.Name, &in.Name, Question{Label: "Project name", Default: project.DefaultName})
	ask(given.Description, &in.Description, Question{Label: "Project description"})
	ask(given.MinMinor, &in.MinMinor, Question{
		Label:    "Minimum Python version (only the n in 3.n)",
		Default:  project.DefaultMinMinor,
		Validate: minorVersion(false),
	})
	ask(given.MaxMinor, &in.MaxMinor, Question{
		Label:    "Maximum Python version (blank to use current)",
		Validate: minorVersion(true),
	})

	var deps, devDeps string
	ask(given.Deps, &deps, Question{Label: "Dependencies (comma-separated)"})
	ask(given.DevDeps, &devDeps, Question{
		Label:   fmt.Sprintf("Dev dependencies (comma-separated, %q for none)", NoDevDeps),
		Default: strings.Join(project.DefaultDevDeps, ", "),
	})
	if err != nil {
		return in, err
	}

	if !given.Deps {
		in.Deps = project.ParseList(deps)
	}
	if !given.DevDeps {
		if strings.EqualFold(devDeps, NoDevDeps) {
			in.DevDeps = []string{}
		} else {
			in.DevDeps = project.ParseList(devDeps)
		}
	}
	return in, nil
}
