package library

import "errors"

// ErrorKind classifies recoverable domain failures so callers can branch on
// the category without parsing messages.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindConflict
	KindNotFound
	KindDuplicateEmail
	KindInvalidCredentials
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not found"
	case KindDuplicateEmail:
		return "duplicate email"
	case KindInvalidCredentials:
		return "invalid credentials"
	default:
		return "unknown"
	}
}

// Error is a recoverable domain error. Validation messages enumerate every
// violated rule, joined with "; ".
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == kind
}
