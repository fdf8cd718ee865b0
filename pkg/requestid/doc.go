// Package requestid tags every HTTP request with an identifier.
//
// Middleware reuses a well-formed incoming X-Request-ID header or generates
// a new one, echoes it on the response and stores it in the request context.
// LoggerExtractor plugs the identifier into pkg/logger so every log line
// written with the request context carries request_id.
package requestid
