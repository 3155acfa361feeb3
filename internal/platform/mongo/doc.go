// Package mongo provides the MongoDB implementation of store.TaskStore on
// top of the official Go driver. Tasks live in the "tasks" collection with
// the task UUID as _id.
package mongo
