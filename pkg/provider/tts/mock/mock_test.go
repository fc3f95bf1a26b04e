package mock_test

import (
	"testing"

	"github.com/sorilab/phonocheck/pkg/provider/tts"
	"github.com/sorilab/phonocheck/pkg/provider/tts/mock"
)

func TestEndPlaybackFiresOnEndOnce(t *testing.T) {
	t.Parallel()

	sp := &mock.Speaker{}
	ends := 0
	if err := sp.Speak(t.Context(), "hello", tts.WithOnEnd(func() { ends++ })); err != nil {
		t.Fatalf("Speak() error = %v", err)
	}
	if !sp.Playing() {
		t.Fatal("Playing() = false after Speak")
	}

	if !sp.EndPlayback() {
		t.Fatal("EndPlayback() = false with a pending utterance")
	}
	if sp.EndPlayback() {
		t.Fatal("EndPlayback() = true with nothing pending")
	}
	if ends != 1 {
		t.Fatalf("OnEnd fired %d times, want 1", ends)
	}
}

func TestNewSpeakSuppressesPriorOnEnd(t *testing.T) {
	t.Parallel()

	sp := &mock.Speaker{}
	firstEnded := false
	_ = sp.Speak(t.Context(), "first", tts.WithOnEnd(func() { firstEnded = true }))
	_ = sp.Speak(t.Context(), "second")

	sp.EndPlayback()
	if firstEnded {
		t.Fatal("superseded utterance fired its OnEnd")
	}
	if got := sp.LastText(); got != "second" {
		t.Fatalf("LastText() = %q, want second", got)
	}
}

func TestCancelSuppressesOnEnd(t *testing.T) {
	t.Parallel()

	sp := &mock.Speaker{}
	ended := false
	_ = sp.Speak(t.Context(), "hello", tts.WithOnEnd(func() { ended = true }))
	sp.Cancel()

	if sp.EndPlayback() {
		t.Fatal("EndPlayback() = true after Cancel")
	}
	if ended {
		t.Fatal("cancelled utterance fired its OnEnd")
	}
	if sp.CancelCount != 1 {
		t.Fatalf("CancelCount = %d, want 1", sp.CancelCount)
	}
}

func TestOnEndMayChainNextUtterance(t *testing.T) {
	t.Parallel()

	// OnEnd fires outside the Speaker's lock, so hosts can chain messages from
	// the completion callback the way the onboarding sequence does.
	sp := &mock.Speaker{}
	_ = sp.Speak(t.Context(), "first", tts.WithOnEnd(func() {
		_ = sp.Speak(t.Context(), "second")
	}))

	sp.EndPlayback()
	if got := sp.LastText(); got != "second" {
		t.Fatalf("LastText() = %q, want second", got)
	}
	if !sp.Playing() {
		t.Fatal("chained utterance is not pending")
	}
}
