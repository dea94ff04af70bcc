package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"universal-harvester/harvesters"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "harvest.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func record(src harvesters.Source, at time.Time, status harvesters.Status) harvesters.Record {
	rec := harvesters.Record{
		BatchID:     "batch-1",
		Source:      src,
		HarvestedAt: at,
		Status:      status,
	}
	if status == harvesters.StatusSuccess {
		rec.Payload = harvesters.Payload{"topic": "x"}
	} else {
		rec.Diagnostic = "fetch failed"
	}
	return rec
}

func TestAppendAndQueryOrdering(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	// Append out of chronological order.
	for _, offset := range []time.Duration{2 * time.Minute, 0, time.Minute} {
		if _, err := s.Append(ctx, record(harvesters.SourceTrend, base.Add(offset), harvesters.StatusSuccess)); err != nil {
			t.Fatalf("Append returned error: %v", err)
		}
	}

	got, err := s.Query(ctx, Filter{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Query returned %d records, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].HarvestedAt.Before(got[i-1].HarvestedAt) {
			t.Fatalf("records out of order at %d: %v then %v", i, got[i-1].HarvestedAt, got[i].HarvestedAt)
		}
	}

	again, err := s.Query(ctx, Filter{})
	if err != nil {
		t.Fatalf("repeat Query returned error: %v", err)
	}
	if !reflect.DeepEqual(got, again) {
		t.Fatal("repeated query without new appends is not idempotent")
	}

	// New appends extend, never reorder, the previous results.
	if _, err := s.Append(ctx, record(harvesters.SourceAudio, base.Add(3*time.Minute), harvesters.StatusFailed)); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	extended, err := s.Query(ctx, Filter{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(extended) != 4 {
		t.Fatalf("Query returned %d records, want 4", len(extended))
	}
	if !reflect.DeepEqual(extended[:3], got) {
		t.Fatal("new append changed the prefix of the previous query result")
	}
}

func TestQueryFilters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	seed := []harvesters.Record{
		record(harvesters.SourceTrend, base, harvesters.StatusSuccess),
		record(harvesters.SourceTrend, base.Add(time.Hour), harvesters.StatusFailed),
		record(harvesters.SourceAudio, base.Add(2*time.Hour), harvesters.StatusSuccess),
	}
	for _, rec := range seed {
		if _, err := s.Append(ctx, rec); err != nil {
			t.Fatalf("Append returned error: %v", err)
		}
	}

	bySource, err := s.Query(ctx, Filter{Source: harvesters.SourceTrend})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(bySource) != 2 {
		t.Fatalf("source filter returned %d records, want 2", len(bySource))
	}

	byStatus, err := s.Query(ctx, Filter{Status: harvesters.StatusFailed})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(byStatus) != 1 || byStatus[0].Diagnostic == "" {
		t.Fatalf("status filter returned %+v", byStatus)
	}

	since, err := s.Query(ctx, Filter{Since: base.Add(time.Hour)})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(since) != 2 {
		t.Fatalf("since filter returned %d records, want 2", len(since))
	}
}

func TestLatest(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	got, err := s.Latest(ctx, harvesters.SourceSound)
	if err != nil {
		t.Fatalf("Latest returned error: %v", err)
	}
	if got != nil {
		t.Fatalf("Latest on empty store = %+v, want nil", got)
	}

	if _, err := s.Append(ctx, record(harvesters.SourceSound, base, harvesters.StatusFailed)); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if _, err := s.Append(ctx, record(harvesters.SourceSound, base.Add(time.Minute), harvesters.StatusSuccess)); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}

	got, err = s.Latest(ctx, harvesters.SourceSound)
	if err != nil {
		t.Fatalf("Latest returned error: %v", err)
	}
	if got == nil || got.Status != harvesters.StatusSuccess {
		t.Fatalf("Latest = %+v, want the newer success record", got)
	}
	if got.Payload["topic"] != "x" {
		t.Fatalf("payload did not round-trip: %+v", got.Payload)
	}
}

func TestConcurrentAppends(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	const k = 24
	var wg sync.WaitGroup
	errs := make(chan error, k)
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := record(harvesters.AllSources()[i%6], time.Now().UTC(), harvesters.StatusSuccess)
			if _, err := s.Append(ctx, rec); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent Append returned error: %v", err)
	}

	got, err := s.Query(ctx, Filter{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(got) != k {
		t.Fatalf("stored %d records, want %d", len(got), k)
	}
}

func TestAppendAfterCloseIsStorageError(t *testing.T) {
	s := openTestStore(t)
	s.Close()

	_, err := s.Append(context.Background(), record(harvesters.SourceTrend, time.Now().UTC(), harvesters.StatusSuccess))
	if err == nil {
		t.Fatal("expected error appending to a closed store")
	}
	var serr *StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("error %v is not a StorageError", err)
	}
}
