// Package api exposes the task planner over HTTP. Handlers translate
// requests into TaskService calls and render tasks in the record shape
// clients already consume (_id, userId, title, ...). Error responses carry
// only a safe message and the request trace ID; details are logged.
package api
