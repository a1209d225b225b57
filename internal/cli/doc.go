// Package cli provides command-line interface setup and configuration
// for loga. It handles flag parsing, subcommand creation, logging setup
// and CLI settings using cobra, viper and zerolog.
package cli
