package seed

import (
	"testing"

	"quill/internal/models"
	"quill/internal/validation"
)

func TestSeedPasswordMeetsPolicy(t *testing.T) {
	if err := validation.ValidatePassword(seedPassword); err != nil {
		t.Fatalf("seeded accounts must satisfy the signup password policy: %v", err)
	}
}

func TestPickTags(t *testing.T) {
	tags := []models.Tag{{ID: 1}, {ID: 2}, {ID: 3}}

	if got := pickTags(tags, 0); len(got) != 0 {
		t.Fatalf("expected no tags, got %d", len(got))
	}

	got := pickTags(tags, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(got))
	}
	if got[0].ID == got[1].ID {
		t.Fatal("picked tags must be distinct")
	}

	// Asking for more than exist caps at the full set.
	if got := pickTags(tags, 10); len(got) != 3 {
		t.Fatalf("expected all 3 tags, got %d", len(got))
	}
}
