// Package ipc provides JSON-RPC daemon control over a Unix domain socket.
// The CLI prefers this channel over the HTTP API: it needs no bearer token
// because socket permissions already scope access to the local user.
package ipc
