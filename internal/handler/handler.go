// Package handler is the HTTP layer. Each endpoint binds and validates its
// request, calls one service method and writes the result as JSON; errors
// are left to the global error handler.
package handler
