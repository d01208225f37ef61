package workqueue

import "time"

// Identity is the claimant of a lease. Address authorizes heartbeat and
// complete; Username is what gets credited.
type Identity struct {
	Username string `json:"username"`
	Address  string `json:"address"`
}

// Item is a unit of work as handed to a worker.
type Item struct {
	ID     uint64   `json:"id"`
	Values []string `json:"values"`
}

// Lease binds a claimed item to its claimant.
type Lease struct {
	Item     Item
	Claimant Identity
	Start    time.Time
	// LastHeartbeat is zero until the first heartbeat.
	LastHeartbeat time.Time
}

// lastActive is the most recent sign of life for the lease.
func (l *Lease) lastActive() time.Time {
	if l.LastHeartbeat.After(l.Start) {
		return l.LastHeartbeat
	}
	return l.Start
}

func (l *Lease) clone() Lease {
	c := *l
	c.Item = cloneItem(l.Item.ID, l.Item.Values)
	return c
}

func cloneItem(id uint64, values []string) Item {
	return Item{ID: id, Values: append([]string(nil), values...)}
}

// idHeap is a min-heap of pending ids.
type idHeap []uint64

func (h idHeap) Len() int            { return len(h) }
func (h idHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h idHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *idHeap) Push(x interface{}) { *h = append(*h, x.(uint64)) }
func (h *idHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
