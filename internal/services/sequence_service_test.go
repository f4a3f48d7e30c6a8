package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"flottapool/internal/repositories/memory"
)

func TestFormatTripID(t *testing.T) {
	cases := map[int64]string{
		1:      "00001",
		42:     "00042",
		99999:  "99999",
		100000: "100000",
	}
	for n, want := range cases {
		if got := FormatTripID(n); got != want {
			t.Errorf("FormatTripID(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestNextTripIDSequential(t *testing.T) {
	log := newTestLogger(t)
	svc := NewSequenceService(memory.NewCounterRepository(), log)

	for i := 1; i <= 3; i++ {
		id, degraded := svc.NextTripID(context.Background())
		if degraded {
			t.Fatalf("unexpected degraded id on attempt %d", i)
		}
		if want := FormatTripID(int64(i)); id != want {
			t.Fatalf("attempt %d: got %q, want %q", i, id, want)
		}
	}
}

func TestNextTripIDConcurrentUnique(t *testing.T) {
	log := newTestLogger(t)
	svc := NewSequenceService(memory.NewCounterRepository(), log)

	const n = 50
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, degraded := svc.NextTripID(context.Background())
			if degraded {
				t.Error("unexpected degraded id under concurrency")
			}
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, n)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate trip id issued: %s", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d distinct ids, got %d", n, len(seen))
	}
	for i := 1; i <= n; i++ {
		if !seen[FormatTripID(int64(i))] {
			t.Fatalf("missing id %s from contiguous range", FormatTripID(int64(i)))
		}
	}
}

func TestNextTripIDDegradedFallback(t *testing.T) {
	log := newTestLogger(t)
	counters := memory.NewCounterRepository()
	counters.FailNext = 1
	svc := NewSequenceService(counters, log)

	id, degraded := svc.NextTripID(context.Background())
	if !degraded {
		t.Fatal("expected degraded flag when the counter store is unreachable")
	}
	if !strings.HasPrefix(id, "ERR-") {
		t.Fatalf("degraded id must carry the ERR- prefix, got %q", id)
	}
	if len(id) != len("ERR-")+4 {
		t.Fatalf("degraded id must end in four digits, got %q", id)
	}

	// The counter is back; issuance resumes from the untouched sequence.
	id, degraded = svc.NextTripID(context.Background())
	if degraded || id != "00001" {
		t.Fatalf("expected 00001 after recovery, got %q (degraded=%v)", id, degraded)
	}
}

func TestDegradedTripIDFormat(t *testing.T) {
	at := time.UnixMilli(1700000012345)
	if got := DegradedTripID(at); got != "ERR-2345" {
		t.Fatalf("DegradedTripID = %q, want ERR-2345", got)
	}

	// Low millisecond remainders are zero padded.
	at = time.UnixMilli(1700000010003)
	if got := DegradedTripID(at); got != "ERR-0003" {
		t.Fatalf("DegradedTripID = %q, want ERR-0003", got)
	}
}
