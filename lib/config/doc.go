// Package config loads the chat's settings with viper: built-in defaults,
// then an optional YAML file ($HOME/.udpchat/config.yaml or --config), then
// UDPCHAT_* environment variables, then command-line flags bound by main.
package config
