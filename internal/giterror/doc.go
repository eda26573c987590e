// Package giterror provides error inspection capabilities for GitHub API errors.
// It centralizes the logic for identifying the kind of failure behind an upstream
// error (GraphQL error messages, HTTP statuses, transport failures) so the client
// and the CLI can classify causes without string matching of their own.
package giterror
