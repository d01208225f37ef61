// Package workqueue implements the in-memory pending set and lease table of a
// single project.
//
// Each item is delivered to exactly one worker at a time. This is achieved
// through:
//
// - Sequential ids: items get strictly increasing ids at ingest, never reused
// - FIFO claims: Claim always hands out the lowest pending id
// - Address-bound leases: heartbeat and complete must come from the address
// that claimed the item
//
// # Item Lifecycle
//
//  1. Ingest: values parsed from a batch, id assigned, item pending
//  2. Claim: item moved to the lease table with the claimant and start time
//  3. Heartbeat: lease liveness timestamp updated (advisory)
//  4. Complete: lease deleted, completed counter incremented
//  5. Expiry (optional): ReclaimExpired returns stale leases to pending
//
// # Snapshots
//
// Snapshot captures the values of every pending and leased item in the batch
// line format. Lease metadata is not captured, so Restore re-ingests every
// item as pending under a fresh id.
//
// A Queue is not safe for concurrent use. The owning project serializes all
// calls behind its own lock.
package workqueue
