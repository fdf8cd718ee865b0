// Package jwt signs and verifies the compact HS256 tokens used for sessions.
//
// A Service is bound to one signing key, issuer and audience. Decode checks
// the algorithm, signature, issuer, audience, expiry and the token type
// discriminant explicitly, so a token minted for one purpose never passes as
// another. Every failure wraps ErrInvalidToken; the wrapped cause is meant for
// server-side logs only.
//
// # Usage
//
//	svc, err := jwt.New(key, "linkauth", "linkauth-clients")
//	if err != nil {
//	    // handle error
//	}
//
//	tok, err := svc.Encode(jwt.Claims{
//	    Type:    jwt.TypeSession,
//	    Subject: userID.String(),
//	    TTL:     30 * 24 * time.Hour,
//	})
//
//	claims, err := svc.Decode(tok, jwt.TypeSession)
//	if errors.Is(err, jwt.ErrInvalidToken) {
//	    // reject
//	}
package jwt
