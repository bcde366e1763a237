package plugin

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Declaration is one entry of the configured plugin list.
type Declaration struct {
	Name       string  `json:"name" yaml:"name"`
	ModulePath string  `json:"modulePath" yaml:"modulePath"`
	Options    Options `json:"options,omitempty" yaml:"options,omitempty"`
}

// Validate checks that the declaration names a plugin and where to load it from.
func (d Declaration) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required),
		validation.Field(&d.ModulePath, validation.Required),
	)
}

// Resolved is a declaration after its init hook ran.
type Resolved struct {
	Name       string  `json:"name"`
	ModulePath string  `json:"modulePath"`
	Options    Options `json:"options"`
	// Plugin is nil for module paths the loader did not know.
	Plugin Plugin `json:"-"`
}
