package trace_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"apidef/internal/trace"
)

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"off", "error", "phase", "detail", "DEBUG"} {
		lvl, err := trace.ParseLevel(name)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", name, err)
		}
		if !strings.EqualFold(lvl.String(), name) {
			t.Errorf("round trip %q -> %s", name, lvl)
		}
	}
	if _, err := trace.ParseLevel("loud"); err == nil {
		t.Errorf("expected error for unknown level")
	}
}

func TestShouldEmit(t *testing.T) {
	tests := []struct {
		level trace.Level
		scope trace.Scope
		want  bool
	}{
		{trace.LevelOff, trace.ScopeError, false},
		{trace.LevelError, trace.ScopeError, true},
		{trace.LevelError, trace.ScopeDriver, false},
		{trace.LevelPhase, trace.ScopePass, true},
		{trace.LevelPhase, trace.ScopeModule, false},
		{trace.LevelDetail, trace.ScopeModule, true},
		{trace.LevelDetail, trace.ScopeNode, false},
		{trace.LevelDebug, trace.ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v", tt.level, tt.scope, got)
		}
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr, err := trace.New(trace.Config{Level: trace.LevelDetail, Output: &buf, Format: trace.FormatNDJSON})
	if err != nil {
		t.Fatal(err)
	}
	root := trace.Begin(tr, trace.ScopeDriver, "check", 0)
	file := trace.Begin(tr, trace.ScopeModule, "file:a.api", root.ID())
	file.WithExtra("decls", "3").End("")
	trace.Begin(tr, trace.ScopeNode, "hidden", file.ID()).End("")
	root.End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d events:\n%s", len(lines), buf.String())
	}
	var ev struct {
		Kind     string            `json:"kind"`
		Name     string            `json:"name"`
		ParentID uint64            `json:"parent_id"`
		Extra    map[string]string `json:"extra"`
	}
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Kind != "end" || ev.Name != "file:a.api" || ev.ParentID != root.ID() || ev.Extra["decls"] != "3" {
		t.Fatalf("event = %+v", ev)
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelPhase, trace.FormatText)
	sp := trace.Begin(tr, trace.ScopePass, "parse", 0)
	sp.End("2 decls")
	out := buf.String()
	if !strings.Contains(out, "→ parse\n") || !strings.Contains(out, "← parse (2 decls)\n") {
		t.Fatalf("text output:\n%s", out)
	}
}

func TestRingKeepsLastEvents(t *testing.T) {
	ring := trace.NewRingTracer(2, trace.LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		trace.Point(ring, trace.ScopeNode, name, "", 0)
	}
	got := ring.Snapshot()
	if len(got) != 2 || got[0].Name != "b" || got[1].Name != "c" {
		t.Fatalf("snapshot = %+v", got)
	}
	var buf bytes.Buffer
	if err := ring.Dump(&buf, trace.FormatText); err != nil || strings.Count(buf.String(), "\n") != 2 {
		t.Fatalf("dump = %q, %v", buf.String(), err)
	}
}

func TestContextAndInertSpans(t *testing.T) {
	if trace.FromContext(context.Background()).Enabled() {
		t.Fatalf("default tracer must be disabled")
	}
	ring := trace.NewRingTracer(8, trace.LevelPhase)
	ctx := trace.WithTracer(context.Background(), ring)
	root := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "run", 0)
	ctx = trace.WithSpan(ctx, root)
	// module scope is filtered at phase level; its children hang off root
	inner := trace.Begin(trace.FromContext(ctx), trace.ScopeModule, "file", trace.CurrentSpan(ctx))
	if inner.ID() != root.ID() {
		t.Fatalf("inert span ID = %d, want parent %d", inner.ID(), root.ID())
	}
	if d := inner.End(""); d != 0 {
		t.Fatalf("inert span reported duration %v", d)
	}
	if n := len(ring.Snapshot()); n != 1 {
		t.Fatalf("ring holds %d events, want 1", n)
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := trace.New(trace.Config{Level: trace.LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("New(off) = %v, %v", tr, err)
	}
	if _, err := trace.ParseFormat("xml"); err == nil {
		t.Fatalf("expected ParseFormat error")
	}
}

func TestBothModeFansOut(t *testing.T) {
	var buf bytes.Buffer
	tr, err := trace.New(trace.Config{Level: trace.LevelPhase, Mode: trace.ModeBoth, Output: &buf, RingSize: 4})
	if err != nil {
		t.Fatal(err)
	}
	multi, ok := tr.(*trace.MultiTracer)
	if !ok {
		t.Fatalf("tracer = %T", tr)
	}
	trace.Begin(tr, trace.ScopePass, "lex", 0).End("")
	if n := len(multi.Ring().Snapshot()); n != 2 || strings.Count(buf.String(), "\n") != 2 {
		t.Fatalf("ring = %d events, stream = %q", n, buf.String())
	}
	if err := tr.Flush(); err != nil {
		t.Fatal(err)
	}
	if _, err := trace.ParseMode("disk"); err == nil {
		t.Fatal("expected ParseMode error")
	}
}

func TestHeartbeat(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelError)
	hb := trace.StartHeartbeat(ring, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for len(ring.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	hb.Stop()
	hb.Stop()
	got := ring.Snapshot()
	if len(got) == 0 || got[0].Kind != trace.KindHeartbeat {
		t.Fatalf("snapshot = %+v", got)
	}
	if trace.StartHeartbeat(trace.Nop, time.Millisecond) != nil {
		t.Fatal("heartbeat on a disabled tracer")
	}
}
