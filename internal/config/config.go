package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/agentx-labs/pyseed/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeyProjectsDir = "projects_dir"
	KeySnippetsDir = "snippets_dir"
	KeyStrategy    = "strategy"
	KeyAuthor      = "author"
	KeyGit         = "git"
	KeyBranch      = "branch"
	KeyPythonMinor = "python_minor"
	KeyLicense     = "license"
)

// ErrUnknownKey is returned by Set for keys outside Keys().
var ErrUnknownKey = errors.New("unknown config key")

// Settings is the decoded configuration.
type Settings struct {
	ProjectsDir string `mapstructure:"projects_dir"`
	SnippetsDir string `mapstructure:"snippets_dir"`
	Strategy    string `mapstructure:"strategy"`
	Author      string `mapstructure:"author"`
	Git         string `mapstructure:"git"`
	Branch      string `mapstructure:"branch"`
	PythonMinor int    `mapstructure:"python_minor"`
	License     string `mapstructure:"license"`
}

// Keys lists every recognised key in display order.
func Keys() []string {
	return []string{
		KeyProjectsDir, KeySnippetsDir, KeyStrategy, KeyAuthor,
		KeyGit, KeyBranch, KeyPythonMinor, KeyLicense,
	}
}

// Dir returns the config directory. PYSEED_HOME overrides ~/.pyseed.
func Dir() string {
	if dir := os.Getenv(branding.EnvVar("home")); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the config file path.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

func setDefaults() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	viper.SetDefault(KeyProjectsDir, filepath.Join(home, "GitHub", "Python"))
	viper.SetDefault(KeySnippetsDir, "")
	viper.SetDefault(KeyStrategy, "uv")
	viper.SetDefault(KeyAuthor, defaultAuthor())
	viper.SetDefault(KeyGit, "git")
	viper.SetDefault(KeyBranch, "dev")
	viper.SetDefault(KeyPythonMinor, 0)
	viper.SetDefault(KeyLicense, "MIT")
}

func defaultAuthor() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}
	name := u.Username
	// Windows reports DOMAIN\user.
	if i := strings.LastIndex(name, `\`); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// Load initializes viper from defaults, the environment and the config file.
// A missing file is not an error; a malformed one is.
func Load() error {
	setDefaults()
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", FilePath(), err)
	}
	return nil
}

// Current decodes the resolved settings. A leading "~" in directory values
// expands to the home directory.
func Current() (*Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	s.ProjectsDir = expandHome(s.ProjectsDir)
	s.SnippetsDir = expandHome(s.SnippetsDir)
	return &s, nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set validates and stores a key, writing only file-backed values so
// defaults and environment overrides are not frozen into the file.
func Set(key, value string) error {
	if !slices.Contains(Keys(), key) {
		return fmt.Errorf("%w: %s (known: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}
	typed, err := parseValue(key, value)
	if err != nil {
		return err
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	path := FilePath()
	file := viper.New()
	file.SetConfigFile(path)
	file.SetConfigType(fileType)
	if _, statErr := os.Stat(path); statErr == nil {
		if err := file.ReadInConfig(); err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
	}
	file.Set(key, typed)
	if err := file.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	viper.Set(key, typed)
	return nil
}

func parseValue(key, value string) (any, error) {
	switch key {
	case KeyStrategy:
		if value != "uv" && value != "setuptools" {
			return nil, fmt.Errorf("strategy must be uv or setuptools, got %q", value)
		}
	case KeyPythonMinor:
		n, err := strconv.Atoi(strings.TrimPrefix(value, "3."))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("python_minor must be a non-negative integer, got %q", value)
		}
		return n, nil
	}
	return value, nil
}
