// Package service contains the application use cases for tasks. It sits
// between the delivery mechanisms (HTTP API) and the persistence layer
// (internal/store), building domain records, delegating to the store and
// translating unexpected failures into service errors.
//
// Validation failures are returned unchanged so callers can detect them with
// errors.Is(err, domain.ErrValidation); anything else is wrapped in a
// TaskServiceError.
package service
