package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	pebblestore "github.com/rzbill/tracker/internal/storage/pebble"
)

var _ pebblestore.MetricsHook = StorageHook{}

func TestCountersAndGauges(t *testing.T) {
	m := New()
	m.ObserveClaim("books", "ok")
	m.ObserveClaim("books", "ok")
	m.ObserveClaim("books", "empty")
	m.ObserveCompletion("books", "ok", 100)
	m.ObserveDepth("books", 7, 2)
	m.ObserveSnapshot("books", 10*time.Millisecond, errors.New("disk full"))

	if got := testutil.ToFloat64(m.claimsTotal.WithLabelValues("books", "ok")); got != 2 {
		t.Fatalf("claims ok=%v", got)
	}
	if got := testutil.ToFloat64(m.completedBytes.WithLabelValues("books")); got != 100 {
		t.Fatalf("bytes=%v", got)
	}
	if got := testutil.ToFloat64(m.pendingItems.WithLabelValues("books")); got != 7 {
		t.Fatalf("pending=%v", got)
	}
	if got := testutil.ToFloat64(m.snapshotFailures.WithLabelValues("books")); got != 1 {
		t.Fatalf("snapshot failures=%v", got)
	}
}

func TestHandlerExposesTrackerMetrics(t *testing.T) {
	m := New()
	m.ObserveIngest("books", 3)
	m.Storage().ObserveBatchCommit(time.Millisecond, 2, 64)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`tracker_ingested_items_total{project="books"} 3`,
		`tracker_storage_bytes_total{op="commit"} 64`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("missing %q in exposition", want)
		}
	}
}

func TestRegistryGathersTrackerFamilies(t *testing.T) {
	m := New()
	m.ObserveReclaim("books", 2)
	m.ObserveReclaim("music", 1)

	n, err := testutil.GatherAndCount(m.Registry(), "tracker_reclaimed_leases_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if n != 2 {
		t.Fatalf("reclaim series=%d, want one per project", n)
	}
}
