package style

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnrecognizedStyleType = errors.New("style type not recognized")
	ErrInvalidColor          = errors.New("invalid color")
	ErrUnknownProperty       = errors.New("unknown style property")
)

// UnrecognizedStyleTypeError reports a property type tag that is neither STATIC nor DYNAMIC.
type UnrecognizedStyleTypeError struct {
	Property PropertyName
	Value    string
}

func (e *UnrecognizedStyleTypeError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("style type not recognized: %s", e.Value)
	}
	return fmt.Sprintf("style type not recognized for %s: %s", e.Property, e.Value)
}

func (e *UnrecognizedStyleTypeError) Is(target error) bool {
	return target == ErrUnrecognizedStyleType
}

type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid vector style: " + strings.Join(e.Problems, "; ")
}
