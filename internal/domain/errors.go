package domain

import "errors"

// Precondition failures: reported to the user before any network call.
var (
	ErrNotLoggedIn = errors.New("not logged in, please login first")
	ErrNoWorkspace = errors.New("please login and select a workspace first")
)
