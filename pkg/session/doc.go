// Package session manages server-side sessions backed by signed bearer tokens.
//
// A session token is an HS256 token of type "session" whose subject is the
// user ID. The token alone is never enough: the repository row is the
// authority, so deleting it revokes the token immediately even though its
// signature and expiry would still verify.
//
// Verify runs its checks in a fixed order:
//
//  1. the token decodes and carries the session type, otherwise ErrInvalidSession;
//  2. an unexpired row exists for it, otherwise ErrInvalidSession;
//  3. the owning user is active, otherwise ErrInactiveUser.
//
// On success the last-accessed time is bumped by a background worker. Bumps
// are best effort: they are dropped when the queue is full and failures are
// only logged.
//
// Usage:
//
//	codec, _ := jwt.New(key, "linkauth", "linkauth-api")
//	store, _ := session.NewStore(session.NewPostgresRepository(db), codec,
//		session.WithLogger(log))
//	defer store.Close()
//
//	sess, _ := store.Create(ctx, userID, session.Meta{UserAgent: ua, IPAddress: ip})
//	id, err := store.Verify(ctx, sess.Token)
package session
