package cli

import (
	"errors"

	"github.com/dmitrijs2005/gophjournal/internal/common"
)

var errUsage = errors.New("usage")

// describe turns an error into a line fit for the terminal.
func describe(err error) string {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case errors.Is(err, common.ErrUnauthorized):
		return "not authorized, please log in"
	case errors.Is(err, common.ErrNotFound):
		return "not found"
	case errors.Is(err, common.ErrConflict):
		return "already exists"
	case errors.Is(err, common.ErrUnavailable):
		return "server unavailable, try again later"
	default:
		return err.Error()
	}
}
