package entities

import (
	"go.uber.org/dig"
)

// ConfigPath is the --config value given on the command line; empty means
// "search the default locations".
type ConfigPath string

// RegisterProviders registers all entity providers with the DIG container.
// A ConfigPath must already be provided.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(func(path ConfigPath) (*Settings, error) {
		return LoadSettings(string(path))
	}); err != nil {
		return err
	}

	return nil
}
