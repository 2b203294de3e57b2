// Package branding provides the identity values baked into the binary.
//
// branding.yaml sits next to this file and is embedded at build time, so a
// fork only edits the YAML to rename the command, its home directory and
// its environment prefix.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	GoModule    string `yaml:"go_module"`
	GitHubRepo  string `yaml:"github_repo"`
}

func load() {
	once.Do(func() {
		defaults = brand{
			CLIName:     "pyseed",
			DisplayName: "Pyseed",
			Description: "Scaffold Python projects from snippet templates",
			HomeDir:     ".pyseed",
			EnvPrefix:   "PYSEED",
			GoModule:    "github.com/agentx-labs/pyseed",
			GitHubRepo:  "agentx-labs/pyseed",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name.
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (".pyseed").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix ("PYSEED").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

func GoModule() string { load(); return defaults.GoModule }

// GitHubRepo returns "owner/repo".
func GitHubRepo() string { load(); return defaults.GitHubRepo }

// EnvVar returns a fully qualified env var name: EnvVar("home") is "PYSEED_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
