// Package store defines interfaces for task persistence. The interfaces
// abstract the storage mechanism from the service layer so the same business
// rules run against PostgreSQL, MongoDB or the in-memory store.
package store
