package main

import (
	"testing"

	"github.com/teslashibe/go-gaze/pkg/gaze"
)

func newTestBoard() (*Board, *gaze.Registry) {
	reg := gaze.NewRegistry()
	b := NewBoard([]*gaze.Target{
		reg.Intern("a", "A"),
		reg.Intern("b", "B"),
		reg.Intern("c", "C"),
		reg.Intern("d", "D"),
	})
	b.Layout(80, 30)
	return b, reg
}

func TestBoardLayout(t *testing.T) {
	b, _ := newTestBoard()

	if len(b.boxes) != 4 {
		t.Fatalf("Expected 4 boxes, got %d", len(b.boxes))
	}
	for i, bx := range b.boxes {
		if bx.x+bx.w > 80 || bx.y+bx.h > 30 {
			t.Errorf("Box %d off screen: %+v", i, bx)
		}
		for j := i + 1; j < len(b.boxes); j++ {
			o := b.boxes[j]
			if bx.contains(o.x, o.y) {
				t.Errorf("Boxes %d and %d overlap", i, j)
			}
		}
	}
}

func TestBoardPick(t *testing.T) {
	b, reg := newTestBoard()

	first := b.boxes[0]
	b.cursorX, b.cursorY = first.x+1, first.y+1
	if got := b.Pick(); got != reg.Get("a") {
		t.Errorf("Pick() = %v, want a", got)
	}

	b.cursorX, b.cursorY = 0, 0
	if got := b.Pick(); got != nil {
		t.Errorf("Pick() = %v, want nil outside boxes", got)
	}
}

func TestBoardMoveClamps(t *testing.T) {
	b, _ := newTestBoard()

	b.Move(-1000, -1000)
	if x, y := b.Cursor(); x != 0 || y != 0 {
		t.Errorf("Cursor = %d,%d, want 0,0", x, y)
	}
	b.Move(1000, 1000)
	if x, y := b.Cursor(); x != 79 || y != 29 {
		t.Errorf("Cursor = %d,%d, want 79,29", x, y)
	}
}

func TestBoardTooSmall(t *testing.T) {
	b, _ := newTestBoard()
	b.Layout(5, 5)

	if len(b.boxes) != 0 {
		t.Errorf("Expected no boxes on a tiny screen, got %d", len(b.boxes))
	}
	if b.Pick() != nil {
		t.Error("Expected nil pick with no boxes")
	}
}

func TestParseTargets(t *testing.T) {
	reg := gaze.NewRegistry()
	targets := parseTargets(" Play , Pause,,Settings ", reg)

	if len(targets) != 3 {
		t.Fatalf("Expected 3 targets, got %d", len(targets))
	}
	if targets[0].ID != "play" || targets[0].Label != "Play" {
		t.Errorf("Unexpected target %+v", targets[0])
	}
	if reg.Get("settings") != targets[2] {
		t.Error("Targets should be interned in the registry")
	}
}
