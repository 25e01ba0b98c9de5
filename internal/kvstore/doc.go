// Package kvstore provides the durable key-value store underpinning queue
// persistence. It deliberately exposes only get/set/delete/list-keys so the
// typed record adapters in internal/queue own all serialization and
// namespacing decisions.
package kvstore
