// Package main hosts the Easel CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into IPC calls
// against the daemon, queue inspection and maintenance operations, job
// submissions, and configuration scaffolding. It centralizes configuration
// resolution and socket discovery so subcommands can focus on user
// experience instead of wiring.
//
// Commands prefer a live daemon connection and fall back to operating on the
// shared record store directly, so the queue stays usable when the daemon is
// down.
package main
