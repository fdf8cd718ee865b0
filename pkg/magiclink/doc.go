// Package magiclink issues and redeems single-use login tokens.
//
// A token is 32 random bytes in hex, valid for 15 minutes by default. Redeem
// marks it used with one conditional write (unused and unexpired at the time
// of the write), so two concurrent redemptions of the same token can never
// both succeed. Unknown, expired and already used tokens are reported with
// the same ErrInvalidOrExpired.
//
// Repositories are provided for PostgreSQL, MongoDB and process memory.
package magiclink
