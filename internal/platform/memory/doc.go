// Package memory provides an in-process implementation of store.TaskStore.
// Data lives only as long as the process; it backs the "memory" database
// driver and the router tests.
package memory
