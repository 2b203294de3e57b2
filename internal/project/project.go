package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// Defaults applied when an answer is left blank.
const (
	DefaultName     = "temp_project"
	DefaultMinMinor = "10"
)

// DefaultDevDeps is used when no development dependencies are given.
var DefaultDevDeps = []string{"commitizen", "pre-commit", "pytest", "tox"}

// ErrInconsistent is returned for version markers that cannot describe a
// usable range.
var ErrInconsistent = errors.New("inconsistent project configuration")

// Input holds the raw answers. MaxMinor may be empty, meaning "whatever the
// running interpreter is".
type Input struct {
	Name        string
	Description string
	MinMinor    string
	MaxMinor    string
	Deps        []string
	DevDeps     []string
}

// Env holds values that come from the machine rather than from the user.
type Env struct {
	ProjectsDir  string
	Author       string
	Now          time.Time
	RunningMinor int
}

// Config is the immutable project configuration.
type Config struct {
	name        string
	description string
	minMinor    int
	maxMinor    int
	hasMax      bool
	deps        []string
	devDeps     []string
	projectsDir string
	author      string
	created     time.Time
}

// New validates in and builds a Config.
func New(in Input, env Env) (*Config, error) {
	c := &Config{
		name:        strings.TrimSpace(in.Name),
		description: strings.TrimSpace(in.Description),
		projectsDir: env.ProjectsDir,
		author:      env.Author,
		created:     env.Now,
	}
	if c.name == "" {
		c.name = DefaultName
	}
	if c.created.IsZero() {
		c.created = time.Now()
	}

	minStr := strings.TrimSpace(in.MinMinor)
	if minStr == "" {
		minStr = DefaultMinMinor
	}
	var err error
	if c.minMinor, err = parseMinor("minimum", minStr); err != nil {
		return nil, err
	}

	if maxStr := strings.TrimSpace(in.MaxMinor); maxStr != "" {
		if c.maxMinor, err = parseMinor("maximum", maxStr); err != nil {
			return nil, err
		}
		c.hasMax = true
	} else {
		c.maxMinor = env.RunningMinor
	}

	if c.maxMinor < c.minMinor {
		if c.hasMax {
			return nil, fmt.Errorf("%w: maximum Python version 3.%d is below minimum 3.%d",
				ErrInconsistent, c.maxMinor, c.minMinor)
		}
		return nil, fmt.Errorf("%w: running Python 3.%d is below minimum 3.%d; pass a maximum version",
			ErrInconsistent, c.maxMinor, c.minMinor)
	}

	c.deps = clean(in.Deps)
	if in.DevDeps == nil {
		c.devDeps = append([]string(nil), DefaultDevDeps...)
	} else {
		c.devDeps = clean(in.DevDeps)
	}
	return c, nil
}

func parseMinor(which, s string) (int, error) {
	s = strings.TrimPrefix(s, "3.")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s Python version %q is not a minor version number",
			ErrInconsistent, which, s)
	}
	return n, nil
}

func clean(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ParseList splits a comma-separated answer. An empty answer yields nil so
// callers can tell "not given" from "given as empty".
func ParseList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return clean(strings.Split(s, ","))
}

// FormatDependencies renders a list as the inside of a TOML inline array:
// each element quoted, joined with ", ".
func FormatDependencies(deps []string) string {
	quoted := make([]string, len(deps))
	for i, d := range deps {
		quoted[i] = `"` + d + `"`
	}
	return strings.Join(quoted, ", ")
}

func (c *Config) Name() string        { return c.name }
func (c *Config) Description() string { return c.description }
func (c *Config) Author() string      { return c.author }

// MinMinor is n in the minimum supported 3.n.
func (c *Config) MinMinor() int { return c.minMinor }

// MaxMinor is the highest supported minor version. When no maximum was given
// this is the running interpreter's minor version.
func (c *Config) MaxMinor() int { return c.maxMinor }

// HasMaxMinor reports whether the maximum was given explicitly.
func (c *Config) HasMaxMinor() bool { return c.hasMax }

// Deps returns a copy of the runtime dependencies.
func (c *Config) Deps() []string { return append([]string(nil), c.deps...) }

// DevDeps returns a copy of the development dependencies.
func (c *Config) DevDeps() []string { return append([]string(nil), c.devDeps...) }

// RequiresPython returns the requires-python expression: ">=3.m,<3.(M+1)"
// with an explicit maximum, ">=3.m" otherwise.
func (c *Config) RequiresPython() string {
	if c.hasMax {
		return fmt.Sprintf(">=3.%d,<3.%d", c.minMinor, c.maxMinor+1)
	}
	return fmt.Sprintf(">=3.%d", c.minMinor)
}

// EnvMatrix returns the tox environment suffixes from min to max inclusive,
// e.g. ["38", "39", "310"].
func (c *Config) EnvMatrix() []string {
	out := make([]string, 0, c.maxMinor-c.minMinor+1)
	for n := c.minMinor; n <= c.maxMinor; n++ {
		out = append(out, "3"+strconv.Itoa(n))
	}
	return out
}

// Constraint parses RequiresPython as a semver constraint.
func (c *Config) Constraint() (*semver.Constraints, error) {
	return semver.NewConstraint(c.RequiresPython())
}

// Supports reports whether a Python version such as "3.11.4" falls inside the
// supported range.
func (c *Config) Supports(version string) bool {
	cons, err := c.Constraint()
	if err != nil {
		return false
	}
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return false
	}
	return cons.Check(v)
}

// ProjectsDir is the parent directory of Root.
func (c *Config) ProjectsDir() string { return c.projectsDir }

// Root is the project root directory.
func (c *Config) Root() string { return filepath.Join(c.projectsDir, c.name) }

// SourceDir is the package directory under src/.
func (c *Config) SourceDir() string { return filepath.Join(c.Root(), "src", c.name) }

// TestsDir is the tests package directory.
func (c *Config) TestsDir() string { return filepath.Join(c.Root(), "tests") }

// Created is the run timestamp.
func (c *Config) Created() time.Time { return c.created }

// CreationDate formats Created as YYYY-MM-DD.
func (c *Config) CreationDate() string { return c.created.Format("2006-01-02") }

// InitText renders the module docstring used for generated __init__.py files.
func (c *Config) InitText(purpose string) string {
	return fmt.Sprintf("\"\"\"%s\n\n:author: %s\n:created: %s\n\"\"\"\n", purpose, c.author, c.CreationDate())
}
