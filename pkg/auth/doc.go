// Package auth implements passwordless sign-in with magic links and
// server-side sessions.
//
// Service ties the pieces together:
//
//	RequestMagicLink  validate email, rate limit per client, create or fetch
//	                  the user, issue a link and hand it to the LinkSender
//	VerifyMagicLink   check token format, redeem it, start a session
//	VerifySession     resolve a bearer token to the signed-in user
//	Logout            revoke one session, idempotent
//	LogoutAll         revoke every session of the current user
//	UpdateProfile     partial update of name and preferences
//
// Every failure is an *Error tagged with a Kind. Its Error method returns a
// coarse message that is safe to show to clients; Reason and the wrapped
// error carry the detail for logs. Match kinds with errors.Is against the
// exported sentinels:
//
//	if errors.Is(err, auth.ErrInvalidSession) {
//	    // 401
//	}
//
// Store calls run under a short timeout. Timeouts and backend failures are
// reported as ErrStoreUnavailable and never as an authentication failure.
package auth
