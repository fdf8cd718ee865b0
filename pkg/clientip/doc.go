// Package clientip resolves the client address of an HTTP request.
//
// Forwarding headers are only honoured when the service runs behind a proxy
// that sets them; otherwise any client could pick its own rate-limit key.
//
//	resolve := clientip.New(clientip.WithTrustedHeaders(cfg.TrustProxyHeaders))
//	router.Use(resolve.Middleware)
//	ip := clientip.GetIPFromContext(r.Context())
package clientip
