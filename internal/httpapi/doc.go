// Package httpapi exposes the authentication service as a JSON API.
//
// Routes:
//
//	POST  /auth/magic-link          request a sign-in link (202)
//	POST  /auth/magic-link/verify   redeem a link for a session token
//	GET   /auth/session             describe the bearer's session
//	POST  /auth/logout              revoke the bearer's session (204)
//	POST  /auth/logout-all          revoke every session of the bearer's user (204)
//	PATCH /auth/profile             update name or preferences
//	GET   /healthz                  dependency readiness
//
// Errors are rendered as {"error":{"code","message","fields"}} where code
// is the auth.Kind string. Messages never carry internal causes.
package httpapi
