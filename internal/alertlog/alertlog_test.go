package alertlog

import (
	"fmt"
	"testing"

	"trade-monitorv1/internal/model"
)

func event(i int) model.AlertEvent {
	return model.AlertEvent{TradeID: fmt.Sprintf("t%d", i), Level: "HIGH"}
}

func TestAppendAndRecent(t *testing.T) {
	l := New(8)
	for i := 0; i < 3; i++ {
		l.Append(event(i))
	}

	got := l.Recent(10)
	if len(got) != 3 {
		t.Fatalf("len=%d, want 3", len(got))
	}
	// Newest first.
	for i, want := range []string{"t2", "t1", "t0"} {
		if got[i].TradeID != want {
			t.Errorf("recent[%d]=%s, want %s", i, got[i].TradeID, want)
		}
	}
}

func TestOverwriteOldest(t *testing.T) {
	l := New(4)
	for i := 0; i < 10; i++ {
		l.Append(event(i))
	}

	if l.Len() != 4 {
		t.Fatalf("len=%d, want capacity 4", l.Len())
	}
	got := l.Recent(4)
	for i, want := range []string{"t9", "t8", "t7", "t6"} {
		if got[i].TradeID != want {
			t.Errorf("recent[%d]=%s, want %s", i, got[i].TradeID, want)
		}
	}
}

func TestRecentLimit(t *testing.T) {
	l := New(8)
	for i := 0; i < 5; i++ {
		l.Append(event(i))
	}
	if got := l.Recent(2); len(got) != 2 || got[0].TradeID != "t4" {
		t.Errorf("Recent(2)=%v", got)
	}
}

func TestNilSafe(t *testing.T) {
	var l *Log
	l.Append(event(1))
	if l.Recent(5) != nil {
		t.Error("nil log should return nil")
	}
	if l.Len() != 0 {
		t.Error("nil log length should be 0")
	}
}

func TestCapacityRounding(t *testing.T) {
	l := New(5)
	if len(l.buf) != 8 {
		t.Errorf("capacity=%d, want next power of two 8", len(l.buf))
	}
	if l = New(0); len(l.buf) != 2 {
		t.Errorf("capacity=%d, want minimum 2", len(l.buf))
	}
}
