// Package service contains the application use cases for managing tasks. It
// orchestrates domain validation, persistence through store.TaskStore and
// change notification, and translates lower-level failures into the three
// error kinds callers act on: ErrValidation, ErrNotFound and
// ErrStoreUnavailable.
//
// The service layer depends on domain entities and store interfaces, never on
// a specific backend.
package service
