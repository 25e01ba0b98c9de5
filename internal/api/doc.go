// Package api defines the transport-neutral DTO layer shared by the HTTP
// server, the IPC surface, and the CLI. Converters translate queue records to
// payload-free representations so listing a large queue never ships media
// bytes over the wire.
package api
