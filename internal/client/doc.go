// Package client is a typed HTTP client for the task API. It unwraps the
// {data, error} envelope and turns error envelopes into *APIError values.
package client
