// Package api handles incoming HTTP requests, request validation and
// response formatting. It adapts HTTP to the services in internal/service
// and maps their errors to status codes without exposing internal details.
package api
