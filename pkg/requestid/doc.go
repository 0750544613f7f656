// Package requestid attaches a correlation id to every HTTP request.
//
// Middleware reuses a well-formed X-Request-ID header or generates a UUID,
// stores the id in the request context and echoes it back. LoggerExtractor
// plugs into logger.WithContextExtractors so records logged with the request
// context carry a request_id attribute.
package requestid
