// Package domain defines the error taxonomy returned by the users feature.
package domain

// Kind classifies a failed user operation. Each kind maps to one fixed message.
type Kind int

const (
	// KindFetch is a failure while reading users.
	KindFetch Kind = iota + 1
	// KindNotFound means the addressed user does not exist.
	KindNotFound
	// KindCreate is any failure while creating a user, validation included.
	KindCreate
	// KindUpdate is any failure while updating a user other than not-found.
	KindUpdate
	// KindDelete is any failure while deleting a user other than not-found.
	KindDelete
)

// String returns the kind name used in logs and metrics.
func (k Kind) String() string {
	switch k {
	case KindFetch:
		return "fetch_error"
	case KindNotFound:
		return "not_found"
	case KindCreate:
		return "create_error"
	case KindUpdate:
		return "update_error"
	case KindDelete:
		return "delete_error"
	default:
		return "unknown"
	}
}

// Error is the only error type the users usecase returns.
// Error() yields a fixed human-readable message; the underlying cause stays
// reachable through Unwrap for server-side logging and is never sent to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so callers can write errors.Is(err, domain.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrFetch    = &Error{Kind: KindFetch, Message: "Error fetching users"}
	ErrNotFound = &Error{Kind: KindNotFound, Message: "User not found"}
	ErrCreate   = &Error{Kind: KindCreate, Message: "Error creating user"}
	ErrUpdate   = &Error{Kind: KindUpdate, Message: "Error updating user"}
	ErrDelete   = &Error{Kind: KindDelete, Message: "Error deleting user"}
)

// New builds an *Error of the given kind wrapping cause.
func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}
