package config

import (
	"fmt"
	"time"
	_ "time/tzdata" // timezone names must resolve on minimal images

	"github.com/go-playground/validator/v10"
)

// Validate checks the struct tags and resolves the timezone.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("%w: timezone %q: %v", ErrConfiguration, c.Timezone, err)
	}
	c.loc = loc
	return nil
}
