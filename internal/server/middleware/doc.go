// Package middleware provides HTTP middleware for the MCP chaos server.
// These middleware functions handle security headers, CORS, request metrics,
// and other cross-cutting concerns.
package middleware
