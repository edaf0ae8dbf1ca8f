// Package catalog is a thin HTTP client for the remote module catalog
// service: create, list, search, get, delete, yank, and audit over a
// collection of stored modules.
package catalog
