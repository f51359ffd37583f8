// Package postgres provides the PostgreSQL implementation of store.TaskStore.
// It handles query execution, mapping between domain entities and rows,
// translation of driver errors into store errors, and the embedded goose
// migrations that create the schema.
package postgres
