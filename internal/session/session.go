// Package session carries the authenticated user's identity. It is built
// once at startup and injected into the controllers instead of being read
// from ambient storage.
package session

// Session identifies the connected employee.
type Session struct {
	Email string
	Token string
}
