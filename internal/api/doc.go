// Package api provides the engine's read-only HTTP surface (SPEC_FULL §10):
// health/status, memory lookup, recall, and export endpoints over gin, with
// the standard success/error response envelope and CORS middleware.
package api
