// Package ids issues and validates the string identifiers used by every
// persisted entity.
package ids

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidID indicates an identifier that is not a well-formed UUID.
var ErrInvalidID = errors.New("ids: invalid identifier")

// Provider issues new unique identifiers.
type Provider interface {
	NewID() (string, error)
}

type uuidProvider struct{}

// NewUUIDProvider constructs a Provider that issues UUIDv7 identifiers.
func NewUUIDProvider() Provider {
	return &uuidProvider{}
}

func (p *uuidProvider) NewID() (string, error) {
	value, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return value.String(), nil
}

// Validate reports whether raw is a well-formed identifier. Malformed ids
// are a caller error distinct from a lookup miss.
func Validate(raw string) error {
	if _, err := uuid.Parse(raw); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return nil
}
