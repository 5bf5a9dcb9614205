// internal/ui/progress_test.go
package ui_test

import (
	"strings"
	"testing"
	"time"

	"github.com/repolens/repolens/internal/ui"
)

func TestPlainProgress(t *testing.T) {
	var messages []string
	p := ui.NewPlainProgress(func(msg string) {
		messages = append(messages, msg)
	})

	p.Update(1, 5, "repo-1")
	p.Update(2, 5, "repo-2")
	p.Wait(90 * time.Minute)
	p.Done(5)

	if len(messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(messages))
	}
	if !strings.Contains(messages[0], "[1/5]") {
		t.Errorf("unexpected progress message: %s", messages[0])
	}
	if !strings.Contains(messages[2], "waiting") {
		t.Errorf("unexpected wait message: %s", messages[2])
	}
}

func TestIsTTY(t *testing.T) {
	// The result depends on the test runner, so only check it does not panic.
	_ = ui.IsTTY()
}
