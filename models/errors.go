package models

// Error types recognized by helper.HTTPHelper.GetStatusCode. Services return
// these so handlers can map failures to HTTP statuses without inspecting
// message strings.

type ErrorValidation struct {
	Message string
	Fields  map[string]string
}

func (e ErrorValidation) Error() string {
	return e.Message
}

type ErrorUnauthorized struct {
	Message string
}

func (e ErrorUnauthorized) Error() string {
	return e.Message
}

type ErrorForbidden struct {
	Message string
}

func (e ErrorForbidden) Error() string {
	return e.Message
}

type ErrorNotFound struct {
	Message string
}

func (e ErrorNotFound) Error() string {
	return e.Message
}

type ErrorConflict struct {
	Message string
}

func (e ErrorConflict) Error() string {
	return e.Message
}

// ErrorInvalidCredential covers bad confirmation codes. The message stays
// generic on purpose: the caller learns the code did not match, nothing else.
type ErrorInvalidCredential struct {
	Message string
}

func (e ErrorInvalidCredential) Error() string {
	return e.Message
}
