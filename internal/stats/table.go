// Package stats keeps per-user completion counters.
package stats

import (
	"errors"
	"sort"

	"github.com/rzbill/tracker/internal/codec"
)

// ErrUserNotFound is returned for a username with no completions.
var ErrUserNotFound = errors.New("tracker: user not found")

// Entry is one user's totals.
type Entry struct {
	Username string `json:"username"`
	Items    uint64 `json:"count"`
	Data     uint64 `json:"bytes"`
}

// Table maps usernames to totals. It is not safe for concurrent use.
type Table struct {
	rows map[string]codec.Tally
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{rows: make(map[string]codec.Tally)}
}

// Credit records one completed item of size bytes for username.
func (t *Table) Credit(username string, bytes uint64) {
	row := t.rows[username]
	row.Items++
	row.Data += bytes
	t.rows[username] = row
}

// Get returns the totals for username.
func (t *Table) Get(username string) (Entry, error) {
	row, ok := t.rows[username]
	if !ok {
		return Entry{}, ErrUserNotFound
	}
	return Entry{Username: username, Items: row.Items, Data: row.Data}, nil
}

// All returns a copy of every row.
func (t *Table) All() map[string]codec.Tally {
	out := make(map[string]codec.Tally, len(t.rows))
	for user, row := range t.rows {
		out[user] = row
	}
	return out
}

// Restore replaces the table's contents with rows.
func (t *Table) Restore(rows map[string]codec.Tally) {
	t.rows = make(map[string]codec.Tally, len(rows))
	for user, row := range rows {
		t.rows[user] = row
	}
}

// Len is the number of users.
func (t *Table) Len() int { return len(t.rows) }

// Top returns up to n entries ranked by items, then data, then username.
// n <= 0 returns every entry.
func (t *Table) Top(n int) []Entry {
	out := make([]Entry, 0, len(t.rows))
	for user, row := range t.rows {
		out = append(out, Entry{Username: user, Items: row.Items, Data: row.Data})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Items != b.Items {
			return a.Items > b.Items
		}
		if a.Data != b.Data {
			return a.Data > b.Data
		}
		return a.Username < b.Username
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
