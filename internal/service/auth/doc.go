// Package auth issues and validates the bearer tokens that identify a user
// on every authenticated request, and verifies stored password hashes.
package auth
