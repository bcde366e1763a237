package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/inonjs/ignite/internal/foundation/errors"
	"github.com/inonjs/ignite/internal/pathutil"
)

// Validate checks the configuration. The source root must exist; every plugin
// declaration must name a plugin and a module path.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Src, validation.Required, validation.By(existingDir)),
		validation.Field(&c.Dst, validation.Required, validation.By(differentFrom(c.Src))),
		validation.Field(&c.Index, validation.Required, validation.By(markdownFile)),
		validation.Field(&c.BaseURL, validation.Required),
		validation.Field(&c.NavItems, validation.Each(validation.Required)),
		validation.Field(&c.CacheSize, validation.Min(1)),
		validation.Field(&c.Events),
	)
	if err != nil {
		return errors.ConfigError("invalid configuration").WithCause(err).Build()
	}

	for i, decl := range c.Plugins {
		if err := decl.Validate(); err != nil {
			return errors.ConfigError("invalid plugin declaration").
				WithCause(err).
				WithContext("index", i).
				WithContext("plugin", decl.Name).
				Build()
		}
	}
	return nil
}

// Validate implements validation.Validatable.
func (e EventsConfig) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Subject, validation.When(e.Enabled(), validation.Required)),
		validation.Field(&e.Retry),
	)
}

// Validate implements validation.Validatable.
func (r RetryConfig) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Backoff, validation.In("fixed", "linear", "exponential")),
		validation.Field(&r.MaxRetries, validation.Min(0)),
	)
}

func existingDir(value any) error {
	p, _ := value.(string)
	if p == "" {
		return nil
	}
	info, err := os.Stat(p)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("directory %s does not exist", p)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", p)
	}
	return nil
}

func differentFrom(src string) validation.RuleFunc {
	return func(value any) error {
		p, _ := value.(string)
		if p != "" && filepath.Clean(p) == filepath.Clean(src) {
			return fmt.Errorf("must differ from src")
		}
		return nil
	}
}

func markdownFile(value any) error {
	name, _ := value.(string)
	if name != "" && !pathutil.IsMarkdownFile(name) {
		return fmt.Errorf("%s is not a markdown file", name)
	}
	return nil
}
