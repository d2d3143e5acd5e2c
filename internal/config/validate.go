package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// repositoryPattern validates "owner/repo" references.
var repositoryPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the config for valid values.
func Validate(c *Config) error {
	var errs []string

	if c.Java.Runtime != "" && strings.TrimSpace(c.Java.Runtime) == "" {
		errs = append(errs, ValidationError{Field: "java.runtime", Message: "must not be blank"}.Error())
	}

	for i, arg := range c.Java.Args {
		if arg == "" {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("java.args[%d]", i), Message: "must not be empty"}.Error())
		}
	}

	if c.Update.Repository != "" && !repositoryPattern.MatchString(c.Update.Repository) {
		errs = append(errs, ValidationError{
			Field:   "update.repository",
			Message: fmt.Sprintf("invalid repository %q (expected owner/repo)", c.Update.Repository),
		}.Error())
	}

	if c.Update.APIURL != "" {
		u, err := url.Parse(c.Update.APIURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "update.api_url",
				Message: fmt.Sprintf("invalid URL %q (expected http or https)", c.Update.APIURL),
			}.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
