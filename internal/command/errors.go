package command

import (
	"errors"
	"fmt"
)

// ErrConfigMissing is matched by ConfigMissingError
var ErrConfigMissing = errors.New("project config missing")

// ConfigMissingError reports an operation run outside of a loga project
type ConfigMissingError struct {
	Marker string
}

func (e *ConfigMissingError) Error() string {
	return fmt.Sprintf("%s not found", e.Marker)
}

func (e *ConfigMissingError) Unwrap() error { return ErrConfigMissing }
