package config

import "errors"

// ErrInvalid indicates the settings document is not valid JSON.
var ErrInvalid = errors.New("config: invalid JSON")

// ErrBadValue indicates a setting has an unusable value.
var ErrBadValue = errors.New("config: bad value")
