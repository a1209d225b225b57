package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"codeberg.org/snonux/loga/internal/home"
)

// Option keys
const (
	KeyGlossary       = "glossary"
	KeySourceLanguage = "source-language"
	KeyTargetLanguage = "target-language"
	KeyNoRegister     = "no-register"
	KeyForce          = "force"
	KeyGlobal         = "global"
)

// Keys lists every option key in display order
var Keys = []string{KeyGlossary, KeySourceLanguage, KeyTargetLanguage, KeyNoRegister, KeyForce, KeyGlobal}

var defaults = map[string]any{
	KeyGlossary:       "",
	KeySourceLanguage: "",
	KeyTargetLanguage: "",
	KeyNoRegister:     false,
	KeyForce:          false,
	KeyGlobal:         false,
}

// ErrUnknownKey is matched by UnknownKeyError
var ErrUnknownKey = errors.New("unknown config key")

// UnknownKeyError reports a write to a key that cannot be persisted
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown config key '%s'", e.Key)
}

func (e *UnknownKeyError) Unwrap() error { return ErrUnknownKey }

// Scope selects the config file written by Write
type Scope int

const (
	// ScopeProject is the .logaling/config file of the current project
	ScopeProject Scope = iota
	// ScopeGlobal is the config file in the loga home
	ScopeGlobal
)

// String returns the scope name
func (s Scope) String() string {
	if s == ScopeGlobal {
		return "global"
	}
	return "project"
}

// Options holds options given explicitly on the command line
type Options map[string]string

// Effective is the resolved option set of one command
type Effective struct {
	Glossary       string
	SourceLanguage string
	TargetLanguage string
	NoRegister     bool
	Force          bool
	Global         bool
}

// Resolver merges global, project and explicit options
type Resolver struct {
	home       *home.Home
	projectDir string
}

// NewResolver creates a resolver for the project rooted at projectDir
func NewResolver(h *home.Home, projectDir string) *Resolver {
	return &Resolver{home: h, projectDir: projectDir}
}

// Path returns the config file of a scope
func (r *Resolver) Path(scope Scope) string {
	if scope == ScopeGlobal {
		return r.home.ConfigFile()
	}
	return home.ProjectConfigFile(r.projectDir)
}

// Resolve overlays defaults, global file, project file and explicit options
func (r *Resolver) Resolve(explicit Options) (*Effective, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	for _, scope := range []Scope{ScopeGlobal, ScopeProject} {
		values, err := ReadFile(r.Path(scope))
		if err != nil {
			return nil, err
		}
		if err := v.MergeConfigMap(toAnyMap(values)); err != nil {
			return nil, fmt.Errorf("failed to merge %s config: %w", scope, err)
		}
	}

	for key, value := range explicit {
		v.Set(key, value)
	}

	return &Effective{
		Glossary:       v.GetString(KeyGlossary),
		SourceLanguage: v.GetString(KeySourceLanguage),
		TargetLanguage: v.GetString(KeyTargetLanguage),
		NoRegister:     v.GetBool(KeyNoRegister),
		Force:          v.GetBool(KeyForce),
		Global:         v.GetBool(KeyGlobal),
	}, nil
}

// Values returns the options stored in one scope
func (r *Resolver) Values(scope Scope) (map[string]string, error) {
	return ReadFile(r.Path(scope))
}

// Write persists key=value in the file of the given scope
func (r *Resolver) Write(scope Scope, key, value string) error {
	if !writable(key) {
		return &UnknownKeyError{Key: key}
	}
	return writeKey(r.Path(scope), key, value)
}

func writable(key string) bool {
	if key == KeyGlobal {
		return false
	}
	_, ok := defaults[key]
	return ok
}

func toAnyMap(values map[string]string) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}
