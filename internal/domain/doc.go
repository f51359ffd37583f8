// Package domain contains the core business entities, value objects, and
// domain logic of the task planner. It represents the heart of the system,
// independent of any specific infrastructure or delivery mechanism.
//
// The only entity is Task: a flat record owned by exactly one owner. The
// views subpackage derives read-only projections from sets of tasks.
package domain
