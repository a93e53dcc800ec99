// Package observability provides logging, metrics, and request context
// helpers for the publication metadata service.
package observability
