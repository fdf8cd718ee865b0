// Package user is the directory of accounts known to the authentication
// service.
//
// Accounts are created implicitly the first time an address asks for a
// magic link, keyed by the normalized email. Profile updates are partial:
// nil fields are left untouched, and preference keys are merged shallowly
// with a nil value deleting the key.
package user
