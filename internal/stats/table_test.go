package stats

import (
	"errors"
	"testing"

	"github.com/rzbill/tracker/internal/codec"
)

func TestCreditCreatesAndAccumulates(t *testing.T) {
	tbl := NewTable()
	if _, err := tbl.Get("alice"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	tbl.Credit("alice", 100)
	tbl.Credit("alice", 0)
	tbl.Credit("bob", 7)

	got, err := tbl.Get("alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != (Entry{Username: "alice", Items: 2, Data: 100}) {
		t.Fatalf("alice %+v", got)
	}
	if tbl.Len() != 2 {
		t.Fatalf("len %d", tbl.Len())
	}
}

func TestAllIsACopy(t *testing.T) {
	tbl := NewTable()
	tbl.Credit("alice", 1)
	all := tbl.All()
	all["alice"] = codec.Tally{Items: 99}
	if got, _ := tbl.Get("alice"); got.Items != 1 {
		t.Fatalf("table mutated through All: %+v", got)
	}
}

func TestRestoreReplaces(t *testing.T) {
	tbl := NewTable()
	tbl.Credit("old", 1)
	tbl.Restore(map[string]codec.Tally{"alice": {Items: 3, Data: 30}})
	if _, err := tbl.Get("old"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("old row survived restore")
	}
	tbl.Credit("alice", 5)
	if got, _ := tbl.Get("alice"); got.Items != 4 || got.Data != 35 {
		t.Fatalf("alice %+v", got)
	}
}

func TestTopOrdering(t *testing.T) {
	tbl := NewTable()
	tbl.Restore(map[string]codec.Tally{
		"carol": {Items: 2, Data: 10},
		"alice": {Items: 5, Data: 1},
		"bob":   {Items: 2, Data: 10},
		"dave":  {Items: 2, Data: 50},
	})
	top := tbl.Top(0)
	want := []string{"alice", "dave", "bob", "carol"}
	for i, name := range want {
		if top[i].Username != name {
			t.Fatalf("rank %d: got %s want %s (%+v)", i, top[i].Username, name, top)
		}
	}
	if got := tbl.Top(2); len(got) != 2 || got[1].Username != "dave" {
		t.Fatalf("top 2: %+v", got)
	}
}
