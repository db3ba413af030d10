// Package middleware holds the global Echo middleware: request ids, the
// request-scoped logger, New Relic tracing, request logging, CORS, panic
// recovery and the error handler that shapes every failure response.
package middleware
