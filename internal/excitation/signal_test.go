package excitation

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/dampsim/internal/dynamo"
)

func TestSignals(t *testing.T) {
	tests := []struct {
		name      string
		sig       Signal
		t         float64
		wantValue float64
		wantSlope float64
	}{
		{"step before zero", Step{Amplitude: 2}, -0.1, 0, 0},
		{"step at zero", Step{Amplitude: 2}, 0, 2, 0},
		{"step later", Step{Amplitude: 2}, 5, 2, 0},
		{"sine at zero", Sine{Amplitude: 1, Frequency: 0.5}, 0, 0, math.Pi},
		{"sine quarter period", Sine{Amplitude: 3, Frequency: 0.5}, 0.5, 3, 0},
		{"sine with phase", Sine{Amplitude: 1, Frequency: 1, Phase: math.Pi / 2}, 0, 1, 0},
		{"ramp", Ramp{Rate: 0.5}, 4, 2, 0.5},
		{"ramp before zero", Ramp{Rate: 0.5}, -1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if v := tt.sig.Value(tt.t); math.Abs(v-tt.wantValue) > 1e-12 {
				t.Errorf("Value(%v) = %v, want %v", tt.t, v, tt.wantValue)
			}
			if s := tt.sig.Slope(tt.t); math.Abs(s-tt.wantSlope) > 1e-12 {
				t.Errorf("Slope(%v) = %v, want %v", tt.t, s, tt.wantSlope)
			}
		})
	}
}

func TestSineSlopeMatchesDifference(t *testing.T) {
	s := Sine{Amplitude: 1.5, Frequency: 0.7, Phase: 0.3}
	h := 1e-6
	for _, tt := range []float64{0.1, 1.3, 4.2} {
		fd := (s.Value(tt+h) - s.Value(tt-h)) / (2 * h)
		if math.Abs(fd-s.Slope(tt)) > 1e-6 {
			t.Errorf("t=%v: slope %v, finite difference %v", tt, s.Slope(tt), fd)
		}
	}
}

func TestSample(t *testing.T) {
	grid, err := dynamo.NewTimeGrid(0, 2, 5)
	if err != nil {
		t.Fatal(err)
	}

	got := Sample(Ramp{Rate: 2}, grid)
	want := []float64{0, 1, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(got))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestControl(t *testing.T) {
	u := Control(Ramp{Rate: 3}, 2)
	if u.Value(0) != 6 || u.Value(1) != 3 {
		t.Errorf("unexpected control %v", u)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		sig     Signal
		wantErr bool
	}{
		{"step", Step{Amplitude: 1}, false},
		{"sine", Sine{Amplitude: 1, Frequency: 0.5}, false},
		{"ramp", Ramp{Rate: 1}, false},
		{"zero frequency", Sine{Amplitude: 1}, true},
		{"nan amplitude", Step{Amplitude: math.NaN()}, true},
		{"inf rate", Ramp{Rate: math.Inf(1)}, true},
		{"nil", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.sig)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, dynamo.ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}
