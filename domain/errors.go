package domain

// Stable numeric codes carried by every rejection. The numbering is part of
// the external contract and must not be renumbered.
const (
	CodeUnauthorized      = 100
	CodeAlreadyRegistered = 101
	CodeNotRegistered     = 102
	CodePaused            = 103
	CodeZeroIdentity      = 104
	CodeInvalidMetadata   = 105
	CodeNotOwner          = 106
	CodeInvalidComponent  = 107
)

// Error is a rejected-operation error. Errors compare by code, so a wrapped
// instance still matches its sentinel under errors.Is.
type Error struct {
	Code   int
	Reason string
}

func (e *Error) Error() string { return e.Reason }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrUnauthorized      = &Error{Code: CodeUnauthorized, Reason: "caller lacks the required role"}
	ErrAlreadyRegistered = &Error{Code: CodeAlreadyRegistered, Reason: "component identifier already in use"}
	ErrNotRegistered     = &Error{Code: CodeNotRegistered, Reason: "component or event not registered"}
	ErrPaused            = &Error{Code: CodePaused, Reason: "registry is paused"}
	ErrZeroIdentity      = &Error{Code: CodeZeroIdentity, Reason: "target identity is the null sentinel"}
	ErrInvalidMetadata   = &Error{Code: CodeInvalidMetadata, Reason: "metadata length must be in (0,256]"}
	ErrNotOwner          = &Error{Code: CodeNotOwner, Reason: "caller is not the component owner"}
	ErrInvalidComponent  = &Error{Code: CodeInvalidComponent, Reason: "invalid component"}
)
