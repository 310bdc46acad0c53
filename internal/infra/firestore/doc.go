// Package firestore is the access layer over the remote transaction store.
// It owns the wire representation of a transaction document, the one-shot
// paged query used by the history screen, the realtime snapshot feeds the
// aggregations subscribe to, and the single write path (append; the system
// has no update or delete).
package firestore
