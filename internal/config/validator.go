package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New()

	// Report json names (catalog.sources) rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("duration", validateDuration); err != nil {
		panic(fmt.Sprintf("registering duration validation: %v", err))
	}
	return v
}

func validateDuration(fl validator.FieldLevel) bool {
	d, err := time.ParseDuration(fl.Field().String())
	return err == nil && d > 0
}

// Validate checks required values and formats.
func (c *Config) Validate() error {
	err := newValidator().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}

	first := verrs[0]
	field := first.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	if first.Param() != "" {
		return fmt.Errorf("invalid config: %s must satisfy %s=%s (got %q)", field, first.Tag(), first.Param(), fmt.Sprint(first.Value()))
	}
	return fmt.Errorf("invalid config: %s must satisfy %s (got %q)", field, first.Tag(), fmt.Sprint(first.Value()))
}
