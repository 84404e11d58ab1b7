// Package config loads editor settings from a JSON document: the suggestion
// trigger character, overlay placement options, feature toggles, and the set
// of disabled extensions.
package config

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/inkstone/inkstone/internal/overlay"
	"github.com/inkstone/inkstone/internal/schema"
)

// Config holds the editor settings. Use Default for the baseline values.
type Config struct {
	// Trigger is the character that opens the suggestion overlay.
	Trigger rune

	// Margin is the minimum distance between overlays and viewport edges.
	Margin int

	// RTL enables right-to-left overlay placement.
	RTL bool

	// Template marks the document as a template.
	Template bool

	// Collab enables the collaboration extensions (mentions, comments).
	Collab bool

	// Upload reports whether a file upload collaborator is configured.
	Upload bool

	// Disabled lists extension names excluded from registration.
	Disabled []string

	// ExtensionDir is the directory scanned for Lua extension scripts.
	ExtensionDir string
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Trigger: '/',
		Margin:  10,
	}
}

// Parse reads a JSON settings document over the defaults. Unknown fields are
// ignored so settings files can carry host-specific extras.
func Parse(data []byte) (Config, error) {
	if !gjson.ValidBytes(data) {
		return Config{}, ErrInvalid
	}
	cfg := Default()

	if v := gjson.GetBytes(data, "trigger"); v.Exists() {
		runes := []rune(v.String())
		if len(runes) != 1 {
			return cfg, fmt.Errorf("%w: trigger must be a single character", ErrBadValue)
		}
		cfg.Trigger = runes[0]
	}
	if v := gjson.GetBytes(data, "margin"); v.Exists() {
		if v.Int() < 0 {
			return cfg, fmt.Errorf("%w: margin must not be negative", ErrBadValue)
		}
		cfg.Margin = int(v.Int())
	}
	cfg.RTL = gjson.GetBytes(data, "rtl").Bool()
	cfg.Template = gjson.GetBytes(data, "template").Bool()
	cfg.Collab = gjson.GetBytes(data, "collab").Bool()
	cfg.Upload = gjson.GetBytes(data, "upload").Bool()

	for _, name := range gjson.GetBytes(data, "disabledExtensions").Array() {
		cfg.Disabled = append(cfg.Disabled, name.String())
	}
	cfg.ExtensionDir = gjson.GetBytes(data, "extensionDir").String()

	return cfg, nil
}

// Load reads and parses the settings file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

// Encode renders the configuration as a JSON settings document.
func (c Config) Encode() ([]byte, error) {
	out := []byte(`{}`)
	var err error

	set := func(path string, value any) {
		if err != nil {
			return
		}
		out, err = sjson.SetBytes(out, path, value)
	}
	set("trigger", string(c.Trigger))
	set("margin", c.Margin)
	set("rtl", c.RTL)
	set("template", c.Template)
	set("collab", c.Collab)
	set("upload", c.Upload)
	for i, name := range c.Disabled {
		set(fmt.Sprintf("disabledExtensions.%d", i), name)
	}
	if c.ExtensionDir != "" {
		set("extensionDir", c.ExtensionDir)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Overlay returns the overlay placement options for this configuration.
func (c Config) Overlay() overlay.Options {
	return overlay.Options{RTL: c.RTL, Margin: c.Margin}
}

// Descriptors returns the active extension descriptors: the full preset, the
// collaboration descriptors when enabled, minus the disabled names.
func (c Config) Descriptors() []*schema.Descriptor {
	base := schema.Full()
	if c.Collab {
		base = schema.WithCollab(base)
	}
	if len(c.Disabled) == 0 {
		return base
	}

	disabled := make(map[string]bool, len(c.Disabled))
	for _, name := range c.Disabled {
		disabled[name] = true
	}
	out := base[:0:0]
	for _, d := range base {
		if !disabled[d.Name] {
			out = append(out, d)
		}
	}
	return out
}
