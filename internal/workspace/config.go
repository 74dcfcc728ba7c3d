// Package workspace describes the monorepo a library is generated into and
// how its settings are discovered.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrConfiguration matches every ConfigurationError.
var ErrConfiguration = errors.New("configuration error")

// ConfigurationError reports a malformed workspace setting or option.
type ConfigurationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("configuration error for %q (value: %v): %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("configuration error for %q: %s", e.Field, e.Message)
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// NewConfigurationError creates a ConfigurationError.
func NewConfigurationError(field string, value any, message string) *ConfigurationError {
	return &ConfigurationError{Field: field, Value: value, Message: message}
}

// DefaultLibrariesRoot is used when nothing in the workspace says otherwise.
const DefaultLibrariesRoot = "libs"

// Config holds the three workspace facts the generators depend on.
type Config struct {
	WorkspaceRoot string `yaml:"-"`
	// Scope is the npm scope without "@", e.g. "acme". May be empty.
	Scope string `yaml:"scope"`
	// LibrariesRoot is the workspace-relative directory libraries live in.
	LibrariesRoot string `yaml:"librariesRoot"`
}

// Validate checks that c can be used to compute project paths.
func (c Config) Validate() error {
	if strings.TrimSpace(c.WorkspaceRoot) == "" {
		return NewConfigurationError("workspaceRoot", nil, "workspace root is required")
	}
	if strings.ContainsAny(c.Scope, "/@ \t") {
		return NewConfigurationError("scope", c.Scope, "scope must be a bare npm scope without '@' or '/'")
	}
	if err := ValidateRelativeDir("librariesRoot", c.LibrariesRoot); err != nil {
		return err
	}
	return nil
}

// ValidateRelativeDir rejects empty, absolute or escaping directories.
func ValidateRelativeDir(field, dir string) error {
	switch {
	case strings.TrimSpace(dir) == "":
		return NewConfigurationError(field, nil, "directory is required")
	case strings.HasPrefix(dir, "/") || strings.Contains(dir, "\\"):
		return NewConfigurationError(field, dir, "directory must be a workspace-relative slash path")
	}
	cleaned := path.Clean(dir)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return NewConfigurationError(field, dir, "directory must stay inside the workspace")
	}
	return nil
}

// Resolver supplies the workspace configuration for a generation run.
type Resolver interface {
	Resolve(ctx context.Context) (Config, error)
}

// Static is a Resolver that always returns the same configuration.
type Static Config

// Resolve implements Resolver.
func (s Static) Resolve(context.Context) (Config, error) {
	return Config(s), nil
}
