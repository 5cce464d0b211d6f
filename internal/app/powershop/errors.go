package powershop

import "errors"

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrCSRFTokenNotFound  = errors.New("csrf token not found on login page")
	ErrLoginRejected      = errors.New("login rejected by portal")
	ErrStillOnLoginPage   = errors.New("still on login page after submitting credentials")
	ErrCustomerIDNotFound = errors.New("could not resolve customer id")
)
