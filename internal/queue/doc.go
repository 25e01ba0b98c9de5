// Package queue defines the durable record model for generative work.
//
// Two concrete record families exist: image batch jobs and video operations.
// They share the Entry capability (id, kind, status, prompt, created-at,
// error) used for merged listing, while submission and polling code works
// with the concrete types. RecordStore persists both families onto the
// key-value store under versioned, per-family namespaces so the kinds never
// collide and old-shape cached records are silently ignored.
package queue
