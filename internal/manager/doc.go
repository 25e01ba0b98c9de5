// Package manager coordinates the queue record lifecycle: create and persist
// a pending record, submit it to the remote service, and reconcile its status
// through on-demand selection or periodic bulk refresh. Persistence always
// precedes network traffic, status only moves forward, and remote failures
// surface as record state rather than errors.
package manager
