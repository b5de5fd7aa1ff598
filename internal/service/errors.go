package service

import (
	"fmt"

	"github.com/GTDGit/gtd_ongkir/internal/models"
	"github.com/GTDGit/gtd_ongkir/internal/utils"
)

// ResolutionErrorKind classifies a failed coordinate resolution.
type ResolutionErrorKind string

const AddressUnresolvable ResolutionErrorKind = "ADDRESS_UNRESOLVABLE"

// ResolutionError is returned when no tier of the coordinate resolver could
// place the address. Err carries the last geocoding failure, if any.
type ResolutionError struct {
	Kind    ResolutionErrorKind
	Address models.AdministrativeAddress
	Err     error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: address %s: %v", e.Kind, e.Address.Key(), e.Err)
	}
	return fmt.Sprintf("%s: address %s", e.Kind, e.Address.Key())
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Is lets callers match with errors.Is(err, utils.ErrAddressUnresolvable).
func (e *ResolutionError) Is(target error) bool {
	return target == utils.ErrAddressUnresolvable && e.Kind == AddressUnresolvable
}
