// Package mongo provides the MongoDB implementation of store.TaskStore.
// Tasks live in a single "tasks" collection as documents keyed by the task ID
// and scoped by their "userId" field.
package mongo
