package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestValidReviewStatus(t *testing.T) {
	for _, s := range []string{ReviewPending, ReviewApproved, ReviewRejected, ReviewNeedsEdit} {
		if !ValidReviewStatus(s) {
			t.Errorf("ValidReviewStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "published", "APPROVED", "deleted"} {
		if ValidReviewStatus(s) {
			t.Errorf("ValidReviewStatus(%q) = true, want false", s)
		}
	}
}

func TestOrderPairIsCanonical(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	b := uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")

	f1, s1 := orderPair(a, b)
	f2, s2 := orderPair(b, a)

	if f1 != f2 || s1 != s2 {
		t.Errorf("orderPair not symmetric: (%v,%v) vs (%v,%v)", f1, s1, f2, s2)
	}
	if f1 != a || s1 != b {
		t.Errorf("orderPair(%v, %v) = (%v, %v)", a, b, f1, s1)
	}
}

func TestValidApplicationStatus(t *testing.T) {
	for _, s := range []string{ApplicationSubmitted, ApplicationReviewed, ApplicationAccepted, ApplicationRejected} {
		if !ValidApplicationStatus(s) {
			t.Errorf("ValidApplicationStatus(%q) = false, want true", s)
		}
	}
	if ValidApplicationStatus("hired") {
		t.Error("ValidApplicationStatus(\"hired\") = true, want false")
	}
}
