package services

import "errors"

// ErrDuplicateMember is returned when adding a user already present in
// the rotation
var ErrDuplicateMember = errors.New("user already in rotation")

// ErrNotPermitted is returned when the acting user may not manage the
// template's rotation
var ErrNotPermitted = errors.New("user may not manage this rotation")
