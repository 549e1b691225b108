package main

import (
	"math"

	"github.com/teslashibe/go-gaze/pkg/gaze"
)

const (
	headerRows = 2
	footerRows = 6
	gap        = 2
	maxCellH   = 5
)

// box is a target's on-screen rectangle
type box struct {
	target     *gaze.Target
	x, y, w, h int
}

func (b box) contains(x, y int) bool {
	return x >= b.x && x < b.x+b.w && y >= b.y && y < b.y+b.h
}

// Board lays targets out in a grid and hit-tests the cursor against them.
// It implements gaze.Picker.
type Board struct {
	targets []*gaze.Target
	boxes   []box

	width, height    int
	cursorX, cursorY int
}

// NewBoard creates a board for targets
func NewBoard(targets []*gaze.Target) *Board {
	return &Board{targets: targets}
}

// Layout arranges the targets for a width x height screen and recentres
// the cursor if it fell off the screen
func (b *Board) Layout(width, height int) {
	b.width, b.height = width, height
	b.boxes = b.boxes[:0]

	n := len(b.targets)
	if n == 0 {
		return
	}

	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols

	cellW := (width - (cols+1)*gap) / cols
	cellH := (height - headerRows - footerRows - (rows+1)*gap/2) / rows
	if cellH > maxCellH {
		cellH = maxCellH
	}
	if cellW < 3 || cellH < 3 {
		return
	}

	for i, t := range b.targets {
		r, c := i/cols, i%cols
		b.boxes = append(b.boxes, box{
			target: t,
			x:      gap + c*(cellW+gap),
			y:      headerRows + gap/2 + r*(cellH+gap/2),
			w:      cellW,
			h:      cellH,
		})
	}

	if b.cursorX <= 0 || b.cursorX >= width || b.cursorY <= 0 || b.cursorY >= height {
		b.cursorX, b.cursorY = width/2, height/2
	}
}

// Move shifts the cursor, clamped to the screen
func (b *Board) Move(dx, dy int) {
	b.cursorX = clamp(b.cursorX+dx, 0, b.width-1)
	b.cursorY = clamp(b.cursorY+dy, 0, b.height-1)
}

// Cursor returns the cursor position
func (b *Board) Cursor() (int, int) {
	return b.cursorX, b.cursorY
}

// Pick returns the target under the cursor, or nil
func (b *Board) Pick() *gaze.Target {
	for _, bx := range b.boxes {
		if bx.contains(b.cursorX, b.cursorY) {
			return bx.target
		}
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
