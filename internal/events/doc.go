// Package events publishes in-process notifications about task lifecycle
// changes.
//
// Services emit events without knowing which handlers consume them. The
// server registers a handler that writes an audit log line per created task;
// tests register recording handlers.
package events
