// Package daemon ties the queue manager to its runtime surfaces: a lock file
// guaranteeing one instance per data directory, a cron-driven background
// refresh sweep, and a bearer-token-guarded local HTTP API. The daemon is the
// credential boundary: remote API keys live here and never appear in any
// response.
package daemon
