package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/teslashibe/go-gaze/pkg/gaze"
	"github.com/teslashibe/go-gaze/pkg/protocol"
)

const (
	frameInterval = 16 * time.Millisecond // ~60 FPS
	flashDuration = 600 * time.Millisecond
	eventLogSize  = 3
)

var (
	styleText     = tcell.StyleDefault
	styleDim      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBox      = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleHover    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleSelected = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleFlash    = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
	styleCursor   = tcell.StyleDefault.Reverse(true)
)

// UI runs the terminal loop. The pointer is stepped on the loop goroutine,
// so event callbacks need no locking.
type UI struct {
	screen  tcell.Screen
	board   *Board
	pointer *gaze.Pointer

	selected string
	flashAt  time.Time
	events   []string
}

// NewUI creates the UI and registers it as a sink on pointer
func NewUI(screen tcell.Screen, board *Board, pointer *gaze.Pointer) *UI {
	ui := &UI{
		screen:  screen,
		board:   board,
		pointer: pointer,
	}
	pointer.AddSink(ui)
	board.Layout(screen.Size())
	return ui
}

// HandleEvent records focus events for display
func (ui *UI) HandleEvent(event protocol.EventData) error {
	if event.Kind == protocol.TypeFocus && event.InFocus {
		ui.selected = event.TargetID
		ui.flashAt = time.Now()
	}

	target := event.TargetLabel
	if target == "" {
		target = "-"
	}
	line := fmt.Sprintf("%s %-5s %-12s in_focus=%v", time.Now().Format("15:04:05.000"), event.Kind, target, event.InFocus)
	ui.events = append(ui.events, line)
	if len(ui.events) > eventLogSize {
		ui.events = ui.events[1:]
	}
	return nil
}

// handleInput applies one terminal event. It returns false to quit.
func (ui *UI) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			ui.board.Move(0, -1)
		case tcell.KeyDown:
			ui.board.Move(0, 1)
		case tcell.KeyLeft:
			ui.board.Move(-2, 0)
		case tcell.KeyRight:
			ui.board.Move(2, 0)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'k':
				ui.board.Move(0, -1)
			case 'j':
				ui.board.Move(0, 1)
			case 'h':
				ui.board.Move(-2, 0)
			case 'l':
				ui.board.Move(2, 0)
			case 'r':
				ui.pointer.Reset()
			}
		}

	case *tcell.EventResize:
		ui.board.Layout(ui.screen.Size())
		ui.screen.Sync()
	}
	return true
}

// Run drives the pointer and redraws until quit is requested or done closes
func (ui *UI) Run(done <-chan struct{}) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := ui.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	last := time.Now()
	for {
		select {
		case <-done:
			return

		case ev := <-eventChan:
			if !ui.handleInput(ev) {
				return
			}

		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			ui.pointer.Step(dt)
			ui.draw(now)
		}
	}
}

func (ui *UI) draw(now time.Time) {
	ui.screen.Clear()
	width, height := ui.screen.Size()
	status := ui.pointer.Snapshot()

	ui.drawText(1, 0, styleText, fmt.Sprintf("gaze-term  pointer=%s  threshold=%.1fs", status.Pointer, status.Threshold))
	ui.drawText(1, 1, styleDim, "arrows/hjkl move   r reset   q quit")

	flashing := now.Sub(ui.flashAt) < flashDuration
	for _, bx := range ui.board.boxes {
		style := styleBox
		switch {
		case bx.target.ID == ui.selected && flashing:
			style = styleFlash
		case status.Locked && bx.target.ID == status.TargetID:
			style = styleSelected
		case bx.target.ID == status.TargetID:
			style = styleHover
		}
		ui.drawBox(bx, style)
	}

	x, y := ui.board.Cursor()
	r, _, _, _ := ui.screen.GetContent(x, y)
	ui.screen.SetContent(x, y, r, nil, styleCursor)

	footer := height - footerRows + 1
	ui.drawDwellBar(1, footer, width-2, status)
	for i, line := range ui.events {
		ui.drawText(1, footer+2+i, styleDim, line)
	}

	ui.screen.Show()
}

func (ui *UI) drawDwellBar(x, y, width int, status protocol.StatusData) {
	label := "dwell "
	if status.HasTarget {
		label = status.TargetLabel + " "
	}
	ui.drawText(x, y, styleText, label)

	barW := width - len(label)
	if barW <= 0 {
		return
	}
	filled := int(status.Fraction * float64(barW))
	if filled > barW {
		filled = barW
	}

	style := styleHover
	if status.Locked {
		style = styleSelected
	}
	for i := 0; i < barW; i++ {
		ch := '░'
		if i < filled {
			ch = '█'
		}
		ui.screen.SetContent(x+len(label)+i, y, ch, nil, style)
	}
}

func (ui *UI) drawBox(bx box, style tcell.Style) {
	right, bottom := bx.x+bx.w-1, bx.y+bx.h-1

	for x := bx.x; x <= right; x++ {
		ui.screen.SetContent(x, bx.y, '─', nil, style)
		ui.screen.SetContent(x, bottom, '─', nil, style)
	}
	for y := bx.y; y <= bottom; y++ {
		ui.screen.SetContent(bx.x, y, '│', nil, style)
		ui.screen.SetContent(right, y, '│', nil, style)
	}
	ui.screen.SetContent(bx.x, bx.y, '┌', nil, style)
	ui.screen.SetContent(right, bx.y, '┐', nil, style)
	ui.screen.SetContent(bx.x, bottom, '└', nil, style)
	ui.screen.SetContent(right, bottom, '┘', nil, style)

	label := bx.target.Name()
	if len(label) > bx.w-2 {
		label = label[:bx.w-2]
	}
	ui.drawText(bx.x+(bx.w-len(label))/2, bx.y+bx.h/2, style, label)
}

func (ui *UI) drawText(x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		ui.screen.SetContent(x+i, y, r, nil, style)
	}
}
