// Command todod serves the todo HTTP API from an in-memory store.
//
// Usage:
//
//	todod [-config todod.toml] [-listen 127.0.0.1:8080] [-seed=true]
//	      [-log-level info] [-log-format text] [-shutdown-timeout 5s]
//
// Settings come from defaults, then the TOML file, then TODOD_* environment
// variables, then flags. The process blocks until SIGINT or SIGTERM and then
// shuts down gracefully. All items are lost when it exits.
package main
