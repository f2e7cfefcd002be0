package scrollback

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/DevOrc/mini/internal/screen"
)

var geom80x24 = screen.Geometry{Width: 80, Height: 24}

func texts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

func sumRows(lines []Line) int {
	total := 0
	for _, l := range lines {
		total += l.Rows
	}
	return total
}

func TestRowsFor(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  int
	}{
		{"empty line", "", 80, 1},
		{"short line", "hello", 80, 1},
		{"one below width", strings.Repeat("a", 79), 80, 1},
		{"exactly width", strings.Repeat("a", 80), 80, 2},
		{"two and a half rows", strings.Repeat("a", 200), 80, 3},
		{"counts runes not bytes", strings.Repeat("é", 10), 10, 2},
		{"unknown width", strings.Repeat("a", 500), 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RowsFor(tt.text, tt.width); got != tt.want {
				t.Errorf("RowsFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBuffer_KeepsNewestTwenty(t *testing.T) {
	b := New(geom80x24)

	for i := 0; i < 25; i++ {
		b.Append(fmt.Sprintf("line %d", i))
	}

	snap := b.Snapshot()
	if len(snap) != 20 {
		t.Fatalf("Snapshot() has %d lines, want 20", len(snap))
	}
	if snap[0].Text != "line 5" || snap[19].Text != "line 24" {
		t.Errorf("retained %q..%q, want \"line 5\"..\"line 24\"", snap[0].Text, snap[19].Text)
	}
	if b.Rows() != 20 {
		t.Errorf("Rows() = %d, want 20", b.Rows())
	}
}

func TestBuffer_LongLineEvictsSeveral(t *testing.T) {
	b := New(screen.Geometry{Width: 10, Height: 9}) // 5 output rows

	for i := 0; i < 5; i++ {
		b.Append(fmt.Sprintf("s%d", i))
	}
	b.Append(strings.Repeat("x", 25)) // 3 rows

	got := texts(b.Snapshot())
	want := []string{"s3", "s4", strings.Repeat("x", 25)}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Snapshot() = %v, want %v", got, want)
	}
}

func TestBuffer_OversizeLineDoesNotFit(t *testing.T) {
	b := New(screen.Geometry{Width: 10, Height: 7}) // 3 output rows

	b.Append("keep?")
	b.Append(strings.Repeat("y", 50)) // 6 rows, larger than the region

	if b.Len() != 0 || b.Rows() != 0 {
		t.Errorf("Len()=%d Rows()=%d, want an empty buffer", b.Len(), b.Rows())
	}

	b.Append("after")
	if got := texts(b.Snapshot()); len(got) != 1 || got[0] != "after" {
		t.Errorf("Snapshot() = %v, want [after]", got)
	}
}

func TestBuffer_NoOutputRegion(t *testing.T) {
	b := New(screen.Geometry{Width: 20, Height: screen.InputBarHeight})

	b.Append("nowhere to go")
	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0 when the output region is empty", b.Len())
	}

	b = New(screen.Geometry{Width: 20, Height: 2})
	b.Append("still nowhere")
	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0 when the output region is negative", b.Len())
	}
}

func TestBuffer_WidthChangeRecomputesRows(t *testing.T) {
	b := New(screen.Geometry{Width: 80, Height: 24})
	b.Append(strings.Repeat("a", 100)) // 2 rows at 80

	b.SetGeometry(screen.Geometry{Width: 40, Height: 24})
	snap := b.Snapshot()
	if snap[0].Rows != 3 {
		t.Errorf("Rows at width 40 = %d, want 3", snap[0].Rows)
	}
	if b.Rows() != 3 {
		t.Errorf("Rows() = %d, want 3", b.Rows())
	}

	b.SetGeometry(screen.Geometry{Width: 200, Height: 24})
	if got := b.Snapshot()[0].Rows; got != 1 {
		t.Errorf("Rows at width 200 = %d, want 1", got)
	}
}

func TestBuffer_RecomputeIsLazy(t *testing.T) {
	b := New(screen.Geometry{Width: 80, Height: 24})
	b.Append(strings.Repeat("a", 100))

	b.SetGeometry(screen.Geometry{Width: 10, Height: 24})
	if b.Rows() != 2 {
		t.Errorf("Rows() = %d before the next Append/Snapshot, want the stale 2", b.Rows())
	}

	b.Append("x")
	if b.Rows() != 12 {
		t.Errorf("Rows() = %d after Append, want 11+1", b.Rows())
	}
}

func TestBuffer_ShrinkEvictsOnNextSnapshot(t *testing.T) {
	b := New(screen.Geometry{Width: 80, Height: 24})
	for i := 0; i < 20; i++ {
		b.Append(fmt.Sprintf("m%d", i))
	}

	b.SetGeometry(screen.Geometry{Width: 80, Height: 10}) // 6 output rows
	snap := b.Snapshot()
	if len(snap) != 6 || snap[0].Text != "m14" {
		t.Errorf("Snapshot() = %v, want m14..m19", texts(snap))
	}
}

func TestBuffer_RowInvariantAndFIFO(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	b := New(screen.Geometry{Width: 16, Height: 14})

	next := 0
	for step := 0; step < 2000; step++ {
		if rng.Intn(50) == 0 {
			b.SetGeometry(screen.Geometry{Width: 4 + rng.Intn(40), Height: 3 + rng.Intn(30)})
		}

		b.Append(fmt.Sprintf("%06d%s", next, strings.Repeat("z", rng.Intn(60))))
		next++

		snap := b.Snapshot()
		if sumRows(snap) > b.Geometry().OutputHeight() && len(snap) > 0 {
			t.Fatalf("step %d: %d rows retained, region is %d", step, sumRows(snap), b.Geometry().OutputHeight())
		}
		if sumRows(snap) != b.Rows() {
			t.Fatalf("step %d: Rows() = %d, lines sum to %d", step, b.Rows(), sumRows(snap))
		}
		for i := 1; i < len(snap); i++ {
			if snap[i-1].Text[:6] >= snap[i].Text[:6] {
				t.Fatalf("step %d: lines out of order: %s before %s", step, snap[i-1].Text[:6], snap[i].Text[:6])
			}
		}
		// Eviction is front-first, so the newest line can only be gone if
		// everything is.
		if len(snap) > 0 && snap[len(snap)-1].Text[:6] != fmt.Sprintf("%06d", next-1) {
			t.Fatalf("step %d: newest line evicted before older ones", step)
		}
	}
}
