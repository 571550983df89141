package linkcheck

import (
	"testing"
)

func TestScoreErrorStatusesPinnedAtZero(t *testing.T) {
	w := DefaultWeights()
	// Even a page full of positive signals scores zero once the status is an
	// error class.
	richSignals := Signals{HasTitle: true, HasCanonical: true, TagOverlap: true}

	for _, status := range []Status{StatusClientError, StatusServerError, StatusTimeout, StatusUnknown} {
		if got := w.Score(status, richSignals); got != 0 {
			t.Errorf("Score(%s, rich signals) = %d, want 0", status, got)
		}
	}
}

func TestScoreDefaultWeights(t *testing.T) {
	w := DefaultWeights()

	tests := []struct {
		name   string
		status Status
		sig    Signals
		want   int
	}{
		{"bare ok", StatusOK, Signals{}, 60},
		{"ok with title", StatusOK, Signals{HasTitle: true}, 70},
		{"ok fully signaled", StatusOK, Signals{HasTitle: true, HasCanonical: true, TagOverlap: true}, 95},
		{"bare redirect", StatusRedirect, Signals{}, 50},
		{"redirect with title and canonical", StatusRedirect, Signals{HasTitle: true, HasCanonical: true}, 70},
		{"ok expired", StatusOK, Signals{Expired: true}, 20},
		{"ok expired with title", StatusOK, Signals{HasTitle: true, Expired: true}, 30},
		{"redirect expired", StatusRedirect, Signals{Expired: true}, 10},
	}

	for _, tt := range tests {
		if got := w.Score(tt.status, tt.sig); got != tt.want {
			t.Errorf("%s: Score = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestScoreClamped(t *testing.T) {
	// Exaggerated weights to force both clamp edges.
	w := Weights{BaseOK: 90, BaseRedirect: 10, TitleBonus: 50, CanonicalBonus: 50, OverlapBonus: 50, ExpiredPenalty: 200}

	if got := w.Score(StatusOK, Signals{HasTitle: true, HasCanonical: true, TagOverlap: true}); got != 100 {
		t.Errorf("upper clamp: Score = %d, want 100", got)
	}
	if got := w.Score(StatusOK, Signals{Expired: true}); got != 0 {
		t.Errorf("lower clamp: Score = %d, want 0", got)
	}
}

// TestPublishableTable covers every status at both sides of the threshold.
func TestPublishableTable(t *testing.T) {
	tests := []struct {
		status Status
		score  int
		want   bool
	}{
		{StatusOK, 70, true},
		{StatusOK, 69, false},
		{StatusRedirect, 70, true},
		{StatusRedirect, 69, false},
		{StatusClientError, 70, false},
		{StatusClientError, 69, false},
		{StatusServerError, 70, false},
		{StatusServerError, 69, false},
		{StatusTimeout, 70, false},
		{StatusTimeout, 69, false},
		{StatusUnknown, 70, false},
		{StatusUnknown, 69, false},
	}

	for _, tt := range tests {
		if got := Publishable(tt.score, tt.status); got != tt.want {
			t.Errorf("Publishable(%d, %s) = %v, want %v", tt.score, tt.status, got, tt.want)
		}
	}

	if Publishable(100, StatusOK) != true {
		t.Error("Publishable(100, ok) should be true")
	}
	if Publishable(0, StatusOK) != false {
		t.Error("Publishable(0, ok) should be false")
	}
}
