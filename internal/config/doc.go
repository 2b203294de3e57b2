// Package config manages user settings stored at ~/.pyseed/config.yaml.
//
// Values resolve in viper's usual order: explicit Set, PYSEED_* environment
// variables, the config file, then built-in defaults. Current decodes them
// into a Settings value.
package config
