// Package api exposes the todo store over HTTP with JSON bodies.
//
// # Routes
//
// Every todo route is mounted twice, under /api/todos and under /todos:
//
//	GET    {base}          list all items (200, JSON array)
//	POST   {base}          create (201, Location header)
//	GET    {base}/{id}     fetch one (200 | 404)
//	PUT    {base}/{id}     replace all fields (200 | 404)
//	DELETE {base}/{id}     remove (204 | 404)
//	GET    {base}/health   liveness text
//	GET    /health         liveness text
//
// # Error Model
//
// A missing item is a 404 with an empty body. Bad ids and bad bodies are a
// 400 carrying APIError. Bodies are size-limited, must be a single JSON
// object, and are checked against an embedded JSON Schema that requires a
// non-empty title. PUT bodies are checked before the store is consulted, so
// a bad body on a missing id is still a 400.
//
// # Server
//
// NewServer wires handlers onto a ServeMux and configures timeouts. Start
// binds the listener synchronously and serves in a goroutine; Stop performs a
// graceful shutdown. Middleware tags each request with X-Request-ID and logs
// method, path, status, and duration.
package api
