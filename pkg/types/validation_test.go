package types

import (
	"errors"
	"testing"
)

func TestValidateChatText(t *testing.T) {
	if _, err := ValidateChatText("   "); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}

	got, err := ValidateChatText("  hello  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Errorf("expected trimmed text, got %q", got)
	}
}

func TestValidatePollInput(t *testing.T) {
	if _, _, err := ValidatePollInput("  ", []string{"a", "b"}); !errors.Is(err, ErrEmptyQuestion) {
		t.Errorf("expected ErrEmptyQuestion, got %v", err)
	}

	// Blank options are dropped, which can push the count under two.
	if _, _, err := ValidatePollInput("q", []string{"a", "  ", ""}); !errors.Is(err, ErrTooFewOptions) {
		t.Errorf("expected ErrTooFewOptions, got %v", err)
	}

	q, opts, err := ValidatePollInput(" favorite? ", []string{" yes ", "", "no"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != "favorite?" {
		t.Errorf("expected trimmed question, got %q", q)
	}
	if len(opts) != 2 || opts[0] != "yes" || opts[1] != "no" {
		t.Errorf("unexpected options: %v", opts)
	}
}

func TestRoomScopeValidate(t *testing.T) {
	valid := RoomScope{
		ScheduleID:   "sched-1",
		OccurrenceID: "occ-1",
		PlatformID:   "plat",
		UserID:       "u1",
		Username:     "ana",
		Role:         RoleHost,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid scope rejected: %v", err)
	}

	missing := valid
	missing.OccurrenceID = ""
	if !errors.Is(missing.Validate(), ErrIncompleteScope) {
		t.Error("expected ErrIncompleteScope for missing occurrence")
	}

	badRole := valid
	badRole.Role = "admin"
	if !errors.Is(badRole.Validate(), ErrInvalidRole) {
		t.Error("expected ErrInvalidRole")
	}
}
