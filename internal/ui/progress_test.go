package ui

import (
	"strings"
	"testing"

	"apidef/internal/driver"
)

func TestApplyEvent(t *testing.T) {
	m := NewProgressModel("check", []string{"a.api", "b.api"}, nil).(*progressModel)

	m.applyEvent(driver.ProgressEvent{Path: "a.api", Stage: driver.StageParse, Total: 2})
	if m.items[0].status != "parsed" || m.percent() != 0.25 {
		t.Fatalf("after parse: %+v, %v", m.items[0], m.percent())
	}
	m.applyEvent(driver.ProgressEvent{Path: "a.api", Done: true, Errors: 3, Total: 2})
	m.applyEvent(driver.ProgressEvent{Path: "b.api", Done: true, Cached: true, Total: 2})
	if m.items[0].status != statusError || m.items[1].status != statusCached || m.percent() != 1 {
		t.Fatalf("items = %+v", m.items)
	}
	m.applyEvent(driver.ProgressEvent{Path: "c.api", Done: true})
	if len(m.items) != 3 || m.items[2].status != statusDone {
		t.Fatalf("unknown paths must be appended: %+v", m.items)
	}

	view := m.View()
	for _, want := range []string{"check [3/3]", "a.api (3 errors)", "cached"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestUpdateQuitsWhenEventsClose(t *testing.T) {
	events := make(chan driver.ProgressEvent, 1)
	events <- driver.ProgressEvent{Path: "a.api", Done: true}
	close(events)
	m := NewProgressModel("check", []string{"a.api"}, events).(*progressModel)

	msg := m.listenForEvent()()
	if _, ok := msg.(eventMsg); !ok {
		t.Fatalf("first message = %T", msg)
	}
	m.Update(msg)
	msg = m.listenForEvent()()
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("second message = %T", msg)
	}
	if _, cmd := m.Update(msg); cmd == nil || !m.done {
		t.Fatal("model must quit after the last event")
	}
	if !strings.HasPrefix(m.View(), "done: check") {
		t.Errorf("view = %q", m.View())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.api", 20, "short.api"},
		{"very/long/path/schema.api", 10, "very/lo..."},
		{"日本語.api", 5, "日..."},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
