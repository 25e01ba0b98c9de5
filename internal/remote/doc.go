// Package remote wraps the generative service's two job styles behind typed
// clients: batch jobs (submit, poll by name, fetch inlined results) for
// images, and long-running operations (start, poll, resolve payload) for
// video. Errors are tagged with sentinel markers so callers can distinguish
// transient query failures from definitive remote verdicts without parsing
// message text.
package remote
