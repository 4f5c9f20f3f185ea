// Package sync implements the book synchronization pipeline: a Redis Stream
// consumer feeding a listener that enriches unseen ISBNs via the Open Library
// catalog and persists them.
package sync

// SyncRequest is the inbound synchronization message. It is transient and
// carries only the ISBN to synchronize; duplicates are expected under
// at-least-once delivery.
type SyncRequest struct {
	ISBN string `json:"isbn"`
}
