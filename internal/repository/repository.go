package repository

import "errors"

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.

// ErrDuplicate is returned when an insert violates a uniqueness constraint
// (for example a taken username). Implementations translate their driver's
// error into this sentinel so services stay driver-agnostic.
var ErrDuplicate = errors.New("duplicate row")

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
