// Package events carries task change notifications from the service layer to
// interested components without coupling them to each other.
//
// The primary components are:
// - TaskChangeEvent: records that one owner's task set changed
// - EventHandler: interface for components that react to events
// - EventEmitter: interface for components that publish events
package events
