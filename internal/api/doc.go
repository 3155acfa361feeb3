// Package api handles incoming HTTP requests, request validation and
// response formatting for the task endpoints. It translates HTTP calls into
// TaskService operations and their results into the {data, error} envelope.
package api
