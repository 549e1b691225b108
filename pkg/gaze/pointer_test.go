package gaze

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/teslashibe/go-gaze/pkg/focus"
	"github.com/teslashibe/go-gaze/pkg/protocol"
)

// collector is a Sink that records events
type collector struct {
	mu     sync.Mutex
	events []protocol.EventData
}

func (c *collector) HandleEvent(e protocol.EventData) error {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
	return nil
}

func (c *collector) kinds() []protocol.MessageType {
	c.mu.Lock()
	defer c.mu.Unlock()
	kinds := make([]protocol.MessageType, len(c.events))
	for i, e := range c.events {
		kinds[i] = e.Kind
	}
	return kinds
}

func (c *collector) last() protocol.EventData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events[len(c.events)-1]
}

func testConfig(threshold float64) Config {
	cfg := DefaultConfig()
	cfg.Name = "test"
	cfg.Threshold = threshold
	cfg.TickInterval = 5 * time.Millisecond
	return cfg
}

func newTestPointer(t *testing.T, cfg Config, picker Picker) *Pointer {
	t.Helper()
	p, err := NewPointer(cfg, picker)
	if err != nil {
		t.Fatalf("NewPointer() error = %v", err)
	}
	return p
}

func TestNewPointer_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero tick", func(c *Config) { c.TickInterval = 0 }},
		{"negative tick", func(c *Config) { c.TickInterval = -time.Millisecond }},
		{"no name", func(c *Config) { c.Name = "" }},
		{"negative threshold", func(c *Config) { c.Threshold = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(1.0)
			tt.mutate(&cfg)
			if p, err := NewPointer(cfg, StaticPicker{}); err == nil || p != nil {
				t.Errorf("NewPointer() = %v, %v; want nil and an error", p, err)
			}
		})
	}
}

func TestPointer_StepPublishesEvents(t *testing.T) {
	reg := NewRegistry()
	lamp := reg.Intern("lamp", "Desk lamp")

	p := newTestPointer(t, testConfig(1.0), StaticPicker{Target: lamp})
	sink := &collector{}
	p.AddSink(sink)

	if err := p.Step(0.5); err != nil {
		t.Fatalf("Step() error = %v", err)
	}

	kinds := sink.kinds()
	if len(kinds) != 2 || kinds[0] != protocol.TypeEnter || kinds[1] != protocol.TypeFocus {
		t.Fatalf("Expected [enter focus], got %v", kinds)
	}
	e := sink.last()
	if e.Pointer != "test" || e.TargetID != "lamp" || e.TargetLabel != "Desk lamp" || e.InFocus {
		t.Errorf("Unexpected event %+v", e)
	}
}

func TestPointer_LocksAfterThreshold(t *testing.T) {
	target := &Target{ID: "a"}
	p := newTestPointer(t, testConfig(1.0), StaticPicker{Target: target})
	sink := &collector{}
	p.AddSink(sink)

	// switch, 0.5, 1.0, 1.5 (crosses), fire
	for i := 0; i < 5; i++ {
		if err := p.Step(0.5); err != nil {
			t.Fatalf("Step() error = %v", err)
		}
	}

	e := sink.last()
	if e.Kind != protocol.TypeFocus || !e.InFocus {
		t.Fatalf("Expected focus(a,true) last, got %+v", e)
	}
	if e.Elapsed != 1.5 || e.Fraction != 1.5 {
		t.Errorf("Expected elapsed/fraction 1.5 at lock, got %v/%v", e.Elapsed, e.Fraction)
	}

	status := p.Snapshot()
	if !status.Locked || status.TargetID != "a" || status.Frames != 5 {
		t.Errorf("Unexpected status %+v", status)
	}
}

func TestPointer_ResetAppliedOnNextStep(t *testing.T) {
	target := &Target{ID: "a"}
	p := newTestPointer(t, testConfig(10), StaticPicker{Target: target})

	p.Step(0)
	p.Step(1.0)
	p.Step(1.0)
	if p.Snapshot().Elapsed != 2.0 {
		t.Fatalf("Expected elapsed 2.0, got %v", p.Snapshot().Elapsed)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.Reset()
		p.Reset() // coalesces
	}()
	wg.Wait()

	// Reset is applied before the frame accumulates
	p.Step(0.5)
	if got := p.Snapshot().Elapsed; got != 0.5 {
		t.Errorf("Expected elapsed 0.5 after reset, got %v", got)
	}
	if p.Snapshot().TargetID != "a" {
		t.Error("Expected target kept across reset")
	}
}

func TestPointer_SinkErrorDoesNotBreakTracking(t *testing.T) {
	target := &Target{ID: "a"}
	p := newTestPointer(t, testConfig(0.5), StaticPicker{Target: target})
	p.AddSink(SinkFunc(func(protocol.EventData) error {
		return errors.New("network down")
	}))

	for i := 0; i < 4; i++ {
		if err := p.Step(0.5); err != nil {
			t.Fatalf("Step() error = %v", err)
		}
	}
	if !p.Snapshot().Locked {
		t.Error("Expected lock despite failing sink")
	}
}

func TestPointer_ObserverErrorReturned(t *testing.T) {
	p := newTestPointer(t, testConfig(1.0), StaticPicker{Target: &Target{ID: "a"}})
	boom := errors.New("boom")
	p.Tracker().OnEnter(func(focus.Event[Target]) error { return boom })

	if err := p.Step(0); !errors.Is(err, boom) {
		t.Errorf("Expected boom from Step, got %v", err)
	}
}

func TestPointer_NilCandidateClearsFocus(t *testing.T) {
	target := &Target{ID: "a"}
	var current *Target = target
	p := newTestPointer(t, testConfig(1.0), PickerFunc(func() *Target { return current }))
	sink := &collector{}
	p.AddSink(sink)

	p.Step(0)
	current = nil
	p.Step(0)
	p.Step(0)

	kinds := sink.kinds()
	if len(kinds) != 3 {
		t.Fatalf("Expected [enter focus focus], got %v", kinds)
	}
	e := sink.last()
	if e.HasTarget() || e.InFocus {
		t.Errorf("Expected focus(nil,false), got %+v", e)
	}
	if p.Snapshot().HasTarget {
		t.Error("Expected no target in status")
	}
}

type advancingPicker struct {
	total  float64
	target *Target
}

func (a *advancingPicker) Advance(dt float64) { a.total += dt }
func (a *advancingPicker) Pick() *Target      { return a.target }

func TestPointer_AdvancesPicker(t *testing.T) {
	picker := &advancingPicker{target: &Target{ID: "a"}}
	p := newTestPointer(t, testConfig(1.0), picker)

	p.Step(0.25)
	p.Step(0.5)

	if picker.total != 0.75 {
		t.Errorf("Expected picker advanced by 0.75, got %v", picker.total)
	}
}

func TestPointer_Run(t *testing.T) {
	target := &Target{ID: "a"}
	cfg := testConfig(0.02)
	p := newTestPointer(t, cfg, StaticPicker{Target: target})
	sink := &collector{}
	p.AddSink(sink)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	if p.IsRunning() {
		t.Error("Expected IsRunning false after Run returns")
	}
	if p.Snapshot().Frames == 0 {
		t.Error("Expected frames to be counted")
	}
	if !p.Snapshot().Locked {
		t.Errorf("Expected lock with a 20ms threshold, status %+v", p.Snapshot())
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"no name", func(c *Config) { c.Name = "" }, true},
		{"zero tick", func(c *Config) { c.TickInterval = 0 }, true},
		{"negative threshold", func(c *Config) { c.Threshold = -1 }, true},
		{"zero threshold", func(c *Config) { c.Threshold = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
