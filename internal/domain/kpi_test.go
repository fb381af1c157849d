package domain

import "testing"

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		previous int
		want     float64
	}{
		{name: "Growth", current: 150, previous: 100, want: 50},
		{name: "Decline", current: 50, previous: 100, want: -50},
		{name: "Flat", current: 100, previous: 100, want: 0},
		{name: "Previous Period Zero", current: 5, previous: 0, want: 500},
		{name: "Both Zero", current: 0, previous: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PercentChange(tt.current, tt.previous); got != tt.want {
				t.Errorf("PercentChange(%d, %d) = %v, want %v", tt.current, tt.previous, got, tt.want)
			}
		})
	}
}

func TestKpiSnapshotTotals(t *testing.T) {
	snap := KpiSnapshot{
		CountsByStatus:   map[string]int{"completed": 3, "in_progress": 2, StatusUnknownKey: 1},
		CountsByAssignee: map[string]int{"u1": 4, UnassignedKey: 2},
	}

	if got := snap.TotalByStatus(); got != 6 {
		t.Errorf("TotalByStatus() = %d, want 6", got)
	}
	if got := snap.TotalByAssignee(); got != 6 {
		t.Errorf("TotalByAssignee() = %d, want 6", got)
	}
}
