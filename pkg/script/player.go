package script

import (
	"math"
	"sync"

	"github.com/teslashibe/go-gaze/pkg/gaze"
)

// Player replays a timeline as a gaze.Picker. It follows the pointer's
// frame clock through Advance.
type Player struct {
	timeline *Timeline
	targets  []*gaze.Target // per step, nil for empty steps
	length   float64

	mu       sync.Mutex
	position float64 // seconds into the timeline
}

// NewPlayer creates a player. Targets are interned in reg so that other
// components see the same *Target values.
func NewPlayer(tl *Timeline, reg *gaze.Registry) *Player {
	labels := make(map[string]string, len(tl.Targets))
	for _, t := range tl.Targets {
		labels[t.ID] = t.Label
	}

	targets := make([]*gaze.Target, len(tl.Steps))
	for i, s := range tl.Steps {
		if s.Target != "" {
			targets[i] = reg.Intern(s.Target, labels[s.Target])
		}
	}

	return &Player{
		timeline: tl,
		targets:  targets,
		length:   tl.Length(),
	}
}

// Advance moves the playhead forward by dt seconds
func (p *Player) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	p.mu.Lock()
	p.position += dt
	if p.timeline.Loop && p.length > 0 {
		p.position = math.Mod(p.position, p.length)
	}
	p.mu.Unlock()
}

// Pick returns the target of the step under the playhead
func (p *Player) Pick() *gaze.Target {
	p.mu.Lock()
	pos := p.position
	p.mu.Unlock()

	var start float64
	for i, s := range p.timeline.Steps {
		end := start + s.Duration.Seconds()
		if pos < end {
			return p.targets[i]
		}
		start = end
	}
	// Past the end of a non-looping timeline
	return nil
}

// Position returns the playhead in seconds
func (p *Player) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

// Done reports whether a non-looping timeline has finished
func (p *Player) Done() bool {
	if p.timeline.Loop {
		return false
	}
	return p.Position() >= p.length
}

// Rewind moves the playhead back to the start
func (p *Player) Rewind() {
	p.mu.Lock()
	p.position = 0
	p.mu.Unlock()
}
