package usecase

import (
	"errors"

	"campaign-earnings/internal/core/port"
)

// storeErr tags a repository error with the persistence kind unless it
// already carries a kind of its own (duplicate rows, version conflicts).
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, port.ErrPersistence) || port.KindOf(err) != port.KindPersistence {
		return err
	}
	return port.Persistence(op, err)
}
