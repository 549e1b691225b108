package script

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tl, err := Load(filepath.Join("testdata", "kiosk.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if tl.Name != "kiosk" || !tl.Loop {
		t.Errorf("Unexpected header %q loop=%v", tl.Name, tl.Loop)
	}
	if len(tl.Targets) != 2 || len(tl.Steps) != 3 {
		t.Fatalf("Expected 2 targets and 3 steps, got %d and %d", len(tl.Targets), len(tl.Steps))
	}
	if time.Duration(tl.Steps[1].Duration) != 500*time.Millisecond {
		t.Errorf("Expected 500ms, got %v", time.Duration(tl.Steps[1].Duration))
	}
	// Bare numbers are seconds
	if tl.Steps[2].Duration.Seconds() != 1.5 {
		t.Errorf("Expected 1.5s, got %v", tl.Steps[2].Duration.Seconds())
	}
	if tl.Length() != 3.0 {
		t.Errorf("Length() = %v, want 3", tl.Length())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join("testdata", "nope.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "no steps",
			doc:  "targets: [{id: a}]\n",
			want: ErrEmptyTimeline,
		},
		{
			name: "unknown target",
			doc:  "steps: [{target: ghost, duration: 1s}]\n",
			want: ErrUnknownTarget,
		},
		{
			name: "zero duration",
			doc:  "targets: [{id: a}]\nsteps: [{target: a, duration: 0}]\n",
			want: ErrInvalidDuration,
		},
		{
			name: "missing duration",
			doc:  "steps: [{}]\n",
			want: ErrInvalidDuration,
		},
		{
			name: "duplicate target",
			doc:  "targets: [{id: a}, {id: a}]\nsteps: [{target: a, duration: 1s}]\n",
			want: ErrDuplicateTarget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParse_BadDuration(t *testing.T) {
	if _, err := Parse([]byte("steps: [{duration: soon}]\n")); err == nil {
		t.Error("Expected decode error for unparseable duration")
	}
}

func TestMarshal_RoundTripsThroughParse(t *testing.T) {
	tl, err := Load(filepath.Join("testdata", "kiosk.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	data, err := tl.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	again, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v\n%s", err, data)
	}
	if again.Length() != tl.Length() {
		t.Errorf("Length changed: %v vs %v", again.Length(), tl.Length())
	}
}
