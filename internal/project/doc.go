// Package project runs one tracker project: its queue, lease table, worker
// stats and leaderboard behind a single lock, plus the background work that
// keeps them fed and durable.
//
// # Operations
//
// Claim, Heartbeat and Complete are the worker-facing calls. Claim refuses
// with ErrProjectInactive while the project is paused and refills the queue
// from the next batch file when nothing is pending. Complete credits both the
// worker stats and the leaderboard inside the same critical section that
// deletes the lease, so a completion is counted exactly once.
//
// # Batches
//
// Items arrive as *.txt files in the project's items folder. Files are
// consumed in name order; each is read outside the state lock, ingested
// under it and deleted only afterwards. A crash between ingest and delete
// re-ingests the batch on the next start, so failures duplicate items rather
// than lose them.
//
// # Durability
//
// A background task snapshots the queue and leaderboard every
// SnapshotInterval while the project is active. State is copied under the
// lock and written after releasing it. With a LeaseTimeout the same task
// returns expired leases to the pending set.
//
// # Registry
//
// LoadRegistry opens every project config in the projects directory once at
// startup. Projects whose state cannot be loaded are left out and never serve
// traffic.
package project
