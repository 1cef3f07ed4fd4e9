package sqlite

import (
	"errors"

	"todoapi/pkg/domain"
)

func errorsIsNotFound(err error) bool { return errors.Is(err, domain.ErrNotFound) }
