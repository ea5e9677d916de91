// Package apperr defines sentinel errors shared by the read surfaces.
package apperr

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
