package config

import "context"

// Loader is the interface for a format-specific settings loader.
type Loader interface {
	// Load reads the settings file at path and overlays every attribute it
	// sets onto s. Attributes the file omits keep their current value.
	Load(ctx context.Context, path string, s *Settings) error
}
