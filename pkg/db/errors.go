package db

import "errors"

// Not-found errors surfaced by stores. Callers branch with errors.Is.
var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrMemberNotFound   = errors.New("rotation member not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrOverrideNotFound = errors.New("override not found")
)
