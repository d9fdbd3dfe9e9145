package service

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")

	// ErrTagsDisabled is returned by tag operations when the lab runs
	// without tag support.
	ErrTagsDisabled = errors.New("tags are not enabled on this lab")
)
