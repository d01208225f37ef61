package workqueue

import (
	"container/heap"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/rzbill/tracker/internal/codec"
)

// Queue holds the pending set and the lease table of one project.
type Queue struct {
	nextID    uint64
	pending   map[uint64][]string
	order     idHeap
	leases    map[uint64]*Lease
	completed uint64
}

// Counts summarizes queue occupancy.
type Counts struct {
	Pending   int    `json:"pending"`
	Leased    int    `json:"leased"`
	Completed uint64 `json:"completed"`
	NextID    uint64 `json:"nextId"`
}

// New returns an empty queue whose first id is 0.
func New() *Queue {
	return &Queue{
		pending: make(map[uint64][]string),
		leases:  make(map[uint64]*Lease),
	}
}

// Ingest appends tuples as pending items and returns the first assigned id and
// how many were added. Re-ingesting the same tuples creates duplicates.
func (q *Queue) Ingest(tuples [][]string) (first, count uint64) {
	first = q.nextID
	for _, values := range tuples {
		id := q.nextID
		q.nextID++
		q.pending[id] = append([]string(nil), values...)
		heap.Push(&q.order, id)
	}
	return first, q.nextID - first
}

// IngestLines parses r in the batch line format and ingests the result.
func (q *Queue) IngestLines(r io.Reader) (int, error) {
	tuples, err := codec.ParseLines(r)
	if err != nil {
		return 0, err
	}
	_, n := q.Ingest(tuples)
	return int(n), nil
}

// Claim leases the lowest pending id to who.
func (q *Queue) Claim(who Identity, now time.Time) (Item, error) {
	if q.order.Len() == 0 {
		return Item{}, ErrQueueEmpty
	}
	id := heap.Pop(&q.order).(uint64)
	values := q.pending[id]
	delete(q.pending, id)

	q.leases[id] = &Lease{
		Item:     Item{ID: id, Values: values},
		Claimant: who,
		Start:    now,
	}
	return cloneItem(id, values), nil
}

// Heartbeat records liveness for the lease on id. It never extends or
// shortens a lease.
func (q *Queue) Heartbeat(id uint64, addr string, now time.Time) error {
	l, ok := q.leases[id]
	if !ok {
		return ErrUnknownLease
	}
	if l.Claimant.Address != addr {
		return ErrIdentityMismatch
	}
	l.LastHeartbeat = now
	return nil
}

// Complete deletes the lease on id and returns its claimant. The lease is
// gone before Complete returns, so a repeated call yields ErrUnknownLease.
func (q *Queue) Complete(id uint64, addr string) (Identity, error) {
	l, ok := q.leases[id]
	if !ok {
		return Identity{}, ErrUnknownLease
	}
	if l.Claimant.Address != addr {
		return Identity{}, ErrIdentityMismatch
	}
	delete(q.leases, id)
	q.completed++
	return l.Claimant, nil
}

// Lease returns a copy of the active lease on id.
func (q *Queue) Lease(id uint64) (Lease, bool) {
	l, ok := q.leases[id]
	if !ok {
		return Lease{}, false
	}
	return l.clone(), true
}

// Stats reports current occupancy.
func (q *Queue) Stats() Counts {
	return Counts{
		Pending:   len(q.pending),
		Leased:    len(q.leases),
		Completed: q.completed,
		NextID:    q.nextID,
	}
}

// ReclaimExpired returns leases idle for at least timeout to the pending set
// under their original ids. A non-positive timeout reclaims nothing.
func (q *Queue) ReclaimExpired(now time.Time, timeout time.Duration) []uint64 {
	if timeout <= 0 {
		return nil
	}
	var reclaimed []uint64
	for id, l := range q.leases {
		if now.Sub(l.lastActive()) < timeout {
			continue
		}
		delete(q.leases, id)
		q.pending[id] = l.Item.Values
		heap.Push(&q.order, id)
		reclaimed = append(reclaimed, id)
	}
	sort.Slice(reclaimed, func(i, j int) bool { return reclaimed[i] < reclaimed[j] })
	return reclaimed
}

// Snapshot copies the values of every pending and leased item, ordered by id.
func (q *Queue) Snapshot() [][]string {
	ids := make([]uint64, 0, len(q.pending)+len(q.leases))
	for id := range q.pending {
		ids = append(ids, id)
	}
	for id := range q.leases {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([][]string, 0, len(ids))
	for _, id := range ids {
		if values, ok := q.pending[id]; ok {
			out = append(out, append([]string(nil), values...))
			continue
		}
		out = append(out, append([]string(nil), q.leases[id].Item.Values...))
	}
	return out
}

// EncodeSnapshot writes Snapshot in the batch line format.
func (q *Queue) EncodeSnapshot(w io.Writer) error {
	return codec.EncodeLines(w, q.Snapshot())
}

// Restore ingests a snapshot written by EncodeSnapshot. Every item becomes
// pending under a fresh id.
func (q *Queue) Restore(r io.Reader) (int, error) {
	n, err := q.IngestLines(r)
	if err != nil {
		return 0, fmt.Errorf("restore queue snapshot: %w", err)
	}
	return n, nil
}
