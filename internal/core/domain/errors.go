package domain

// Kind discriminates authentication and authorization failures. The set is
// closed; handlers branch on kinds, never on error strings.
type Kind string

const (
	KindMalformed         Kind = "MALFORMED"
	KindExpired           Kind = "EXPIRED"
	KindBadSignature      Kind = "BAD_SIGNATURE"
	KindWrongKind         Kind = "WRONG_KIND"
	KindRevoked           Kind = "REVOKED"
	KindPrincipalNotFound Kind = "PRINCIPAL_NOT_FOUND"
	KindForbidden         Kind = "FORBIDDEN"
	KindUnavailable       Kind = "UNAVAILABLE"
)

// AuthError carries a stable kind plus an opaque detail string. The detail
// is for internal logs only and must never reach a response body.
type AuthError struct {
	Kind   Kind
	Detail string
}

func (e *AuthError) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Detail
}

// Is matches any AuthError of the same kind, so callers can dispatch with
// errors.Is against the sentinels below regardless of detail.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	return ok && t.Kind == e.Kind
}

// Sentinel values, one per kind.
var (
	ErrMalformed         = &AuthError{Kind: KindMalformed}
	ErrExpired           = &AuthError{Kind: KindExpired}
	ErrBadSignature      = &AuthError{Kind: KindBadSignature}
	ErrWrongKind         = &AuthError{Kind: KindWrongKind}
	ErrRevoked           = &AuthError{Kind: KindRevoked}
	ErrPrincipalNotFound = &AuthError{Kind: KindPrincipalNotFound}
	ErrForbidden         = &AuthError{Kind: KindForbidden}
	ErrUnavailable       = &AuthError{Kind: KindUnavailable}
)

// NewAuthError creates an AuthError with a detail string for logging.
func NewAuthError(kind Kind, detail string) *AuthError {
	return &AuthError{Kind: kind, Detail: detail}
}
