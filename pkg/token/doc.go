// Package token generates unguessable random strings for single-use links
// and session identifiers.
//
// Randomness comes from crypto/rand. A failing entropy source is treated as a
// broken process precondition and panics instead of returning an error.
//
// # Usage
//
//	import "github.com/dmitrymomot/linkauth/pkg/token"
//
//	tok := token.Generate(token.DefaultLength) // 64 lowercase hex chars
//	if !token.IsHex(tok, token.DefaultLength) {
//	    // reject before touching storage
//	}
package token
