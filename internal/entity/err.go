package entity

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalid           = errors.New("invalid entity")
	ErrConflict          = errors.New("conflict")
	ErrInternal          = errors.New("internal error")
	ErrAlreadyInProgress = errors.New("deployment already in progress")
	ErrPoolExhausted     = errors.New("no free ports in pool")
	ErrServerInUse       = errors.New("server is referenced by projects")
)
