package pagination

import "testing"

func TestNormalizePage(t *testing.T) {
	if got := NormalizePage(0); got != 1 {
		t.Fatalf("page 0 should clamp to 1, got %d", got)
	}
	if got := NormalizePage(-3); got != 1 {
		t.Fatalf("negative page should clamp to 1, got %d", got)
	}
	if got := NormalizePage(7); got != 7 {
		t.Fatalf("valid page should pass through, got %d", got)
	}
}

func TestNormalizePageSize(t *testing.T) {
	if got := NormalizePageSize(0); got != DefaultPageSize {
		t.Fatalf("zero size should default, got %d", got)
	}
	if got := NormalizePageSize(500); got != MaxPageSize {
		t.Fatalf("oversized request should cap, got %d", got)
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 12, 0},
		{1, 12, 1},
		{12, 12, 1},
		{13, 12, 2},
		{24, 12, 2},
		{15, 12, 2},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.size); got != tt.want {
			t.Fatalf("TotalPages(%d,%d)=%d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestWindow(t *testing.T) {
	start, end := Window(1, 12, 15)
	if start != 0 || end != 12 {
		t.Fatalf("page 1 window = [%d,%d), want [0,12)", start, end)
	}

	start, end = Window(2, 12, 15)
	if start != 12 || end != 15 {
		t.Fatalf("page 2 window = [%d,%d), want [12,15)", start, end)
	}

	start, end = Window(5, 12, 15)
	if start != 15 || end != 15 {
		t.Fatalf("out-of-range page should yield empty window, got [%d,%d)", start, end)
	}
}
