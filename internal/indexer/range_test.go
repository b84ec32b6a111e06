package indexer

import (
	"math"
	"reflect"
	"testing"
	"time"
)

func TestPlanRangesUneven(t *testing.T) {
	got, err := PlanRanges(1_000_000, 25_000, 10_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []BlockRange{
		{From: 990_001, To: 1_000_000},
		{From: 980_001, To: 990_000},
		{From: 975_000, To: 980_000},
	}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ranges mismatch: %+v != %+v", got, want)
	}
}

func TestPlanRangesSingle(t *testing.T) {
	got, err := PlanRanges(1_000_000, 5_000, 10_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []BlockRange{{From: 995_000, To: 1_000_000}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ranges mismatch: %+v != %+v", got, want)
	}
}

func TestPlanRangesEven(t *testing.T) {
	got, err := PlanRanges(100, 20, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []BlockRange{
		{From: 91, To: 100},
		{From: 80, To: 90},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ranges mismatch: %+v != %+v", got, want)
	}
}

func TestPlanRangesGenesis(t *testing.T) {
	got, err := PlanRanges(0, 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []BlockRange{{From: 0, To: 0}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ranges mismatch: %+v != %+v", got, want)
	}
}

func TestPlanRangesInvalid(t *testing.T) {
	if _, err := PlanRanges(100, 10, 0); err == nil {
		t.Fatalf("expected error for zero chunk size")
	}
	if _, err := PlanRanges(100, 101, 10); err == nil {
		t.Fatalf("expected error for window before genesis")
	}
}

func TestPlanRangesCoverage(t *testing.T) {
	const head = 50_000
	for total := uint64(1); total <= 200; total += 7 {
		for chunk := uint64(1); chunk <= 60; chunk += 3 {
			ranges, err := PlanRanges(head, total, chunk)
			if err != nil {
				t.Fatalf("total=%d chunk=%d: %v", total, chunk, err)
			}

			wantCount := (total + chunk - 1) / chunk
			if uint64(len(ranges)) != wantCount {
				t.Fatalf("total=%d chunk=%d: got %d ranges, want %d", total, chunk, len(ranges), wantCount)
			}
			if ranges[0].To != head {
				t.Fatalf("total=%d chunk=%d: first range ends at %d", total, chunk, ranges[0].To)
			}
			if last := ranges[len(ranges)-1]; last.From != head-total {
				t.Fatalf("total=%d chunk=%d: last range starts at %d", total, chunk, last.From)
			}

			var covered uint64
			for i, r := range ranges {
				if r.From > r.To {
					t.Fatalf("total=%d chunk=%d: inverted range %+v", total, chunk, r)
				}
				if r.To-r.From > chunk {
					t.Fatalf("total=%d chunk=%d: range %+v exceeds chunk", total, chunk, r)
				}
				if i > 0 && ranges[i-1].From != r.To+1 {
					t.Fatalf("total=%d chunk=%d: gap or overlap between %+v and %+v", total, chunk, ranges[i-1], r)
				}
				covered += r.Blocks()
			}
			if covered != total+1 {
				t.Fatalf("total=%d chunk=%d: covered %d blocks", total, chunk, covered)
			}

			again, _ := PlanRanges(head, total, chunk)
			if !reflect.DeepEqual(ranges, again) {
				t.Fatalf("total=%d chunk=%d: plan is not deterministic", total, chunk)
			}
		}
	}
}

func TestPlanRangesHugeChunk(t *testing.T) {
	got, err := PlanRanges(1_000_000, 216_000, math.MaxUint64-10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []BlockRange{{From: 784_000, To: 1_000_000}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ranges mismatch: got %v want %v", got, want)
	}

	got, err = PlanRanges(math.MaxUint64, math.MaxUint64, math.MaxUint64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want = []BlockRange{{From: 0, To: math.MaxUint64}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ranges mismatch: got %v want %v", got, want)
	}

	chunk := uint64(math.MaxUint64/2 + 1)
	got, err = PlanRanges(math.MaxUint64, math.MaxUint64, chunk)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want = []BlockRange{
		{From: math.MaxUint64 - chunk + 1, To: math.MaxUint64},
		{From: 0, To: math.MaxUint64 - chunk},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ranges mismatch: got %v want %v", got, want)
	}
}

func TestClampWindow(t *testing.T) {
	if got, clamped := ClampWindow(100, 50); got != 50 || clamped {
		t.Fatalf("unexpected clamp: %d %v", got, clamped)
	}
	if got, clamped := ClampWindow(100, 150); got != 100 || !clamped {
		t.Fatalf("expected clamp to head: %d %v", got, clamped)
	}
}

func TestBlocksForWindow(t *testing.T) {
	got, err := BlocksForWindow(30*24*time.Hour, 12*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 216_000 {
		t.Fatalf("blocks mismatch: %d", got)
	}

	if _, err := BlocksForWindow(time.Second, 12*time.Second); err == nil {
		t.Fatalf("expected error for window shorter than a block")
	}
	if _, err := BlocksForWindow(time.Hour, 0); err == nil {
		t.Fatalf("expected error for zero block time")
	}
}
