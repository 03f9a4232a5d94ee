package core

import "testing"

func TestInteractionStatusTerminal(t *testing.T) {
	terminal := []InteractionStatus{StatusCompleted, StatusFailed, StatusCancelled}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%q.Terminal() = false, want true", s)
		}
	}

	active := []InteractionStatus{StatusQueued, StatusInProgress, ""}
	for _, s := range active {
		if s.Terminal() {
			t.Errorf("%q.Terminal() = true, want false", s)
		}
	}
}

func TestInteractionText(t *testing.T) {
	in := Interaction{Contents: []Content{
		{Type: ContentTypeText, Text: "Hello"},
		{Type: ContentTypeThought, Text: "hmm"},
		{Type: ContentTypeText, Text: " world"},
	}}

	if got := in.Text(); got != "Hello world" {
		t.Errorf("Text() = %q, want %q", got, "Hello world")
	}
}
