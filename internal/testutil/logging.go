package testutil

import "github.com/rs/zerolog"

// SilenceLogs disables the global logger for a test binary and returns the
// level it replaced
func SilenceLogs() zerolog.Level {
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.Disabled)
	return prev
}
