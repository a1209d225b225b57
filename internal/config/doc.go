// Package config resolves the effective options of a command. Options come
// from built-in defaults, the global config file in the loga home, the
// project config file and the command line, in increasing priority.
//
// Both config files hold one "--key value" pair per line; when a key occurs
// more than once the last line wins.
package config
