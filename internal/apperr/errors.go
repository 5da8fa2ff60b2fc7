// Package apperr defines sentinel errors shared across the service layers.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

// UnknownArtifactsError rejects an anchor save that references artifact ids
// which do not exist. All offending ids are listed; no partial save happens.
type UnknownArtifactsError struct {
	IDs []string
}

func (e *UnknownArtifactsError) Error() string {
	return fmt.Sprintf("unknown artifact ids: %s", strings.Join(e.IDs, ", "))
}

func (e *UnknownArtifactsError) Is(target error) bool {
	return target == ErrValidation
}
