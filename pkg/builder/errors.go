package builder

import (
	"fmt"
	"strings"
)

// ValidationError reports a malformed build arg, tag or flag value.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) ConfigError() {}

// UnknownImageError is returned when a requested image is not in the build order.
type UnknownImageError struct {
	Name  string
	Known []string
}

func (e *UnknownImageError) Error() string {
	return fmt.Sprintf("unknown image name %q (known images: %s)", e.Name, strings.Join(e.Known, ", "))
}

func (e *UnknownImageError) ConfigError() {}

// FlagConflictError reports options that cannot be combined.
type FlagConflictError struct {
	Message string
}

func (e *FlagConflictError) Error() string {
	return e.Message
}

func (e *FlagConflictError) ConfigError() {}

// MissingBuildFileError is returned when an image directory or its Dockerfile is missing.
type MissingBuildFileError struct {
	Image string
	Path  string
}

func (e *MissingBuildFileError) Error() string {
	return fmt.Sprintf("no image folder found for %s: %s does not exist", e.Image, e.Path)
}
