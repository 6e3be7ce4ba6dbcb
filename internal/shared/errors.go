package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique constraint violation.
	ErrAlreadyExists = errors.New("already exists")
	// ErrForbidden indicates the actor may not touch the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthenticated indicates no resolvable actor on the request.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// UserSafeMessage maps internal errors to a message safe for API consumers.
func UserSafeMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "record not found"
	case errors.Is(err, ErrAlreadyExists):
		return "record already exists"
	case errors.Is(err, ErrForbidden):
		return "operation not allowed"
	case errors.Is(err, ErrUnauthenticated):
		return "authentication required"
	default:
		return "internal error"
	}
}
