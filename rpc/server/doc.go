// Package server implements the http admin surface of tinycfg. A ConfigServer
// owns one store.IConfigStore and exposes its operations as a small JSON api
// built with gin.
//
// Routes:
//
//	GET    /config                  whole document as a JSON object
//	GET    /config/:key             {"key","value","type"}, ?type=int|float|string&fallback=..
//	PUT    /config/:key             body {"value": <number|string>}
//	DELETE /config/:key             {"deleted": bool}
//	POST   /config/delete           body {"keys": [...]}, {"deleted": bool}
//	POST   /reset                   replaces the document with {}
//	GET    /max-size                {"bytes": n}
//	PUT    /max-size                body {"bytes": n}
//	GET    /metrics                 Prometheus text format (only with a stats collector)
//
// A failed store operation is answered with {"error": kind, "message": text}
// where kind is the snake_case name of the store.ErrorKind. The status code
// is 503 for not_running, 413 for size_too_large, 400 for size_too_small and
// 500 for everything else.
//
// Thread Safety:
//
//	The store itself is not safe for concurrent use. Every route except
//	/metrics holds the server mutex while it runs, so requests are applied
//	one at a time.
package server
