package preview

import "testing"

func TestComputeScale(t *testing.T) {
	tests := []struct {
		name                  string
		containerW, viewportH float64
		templateW, templateH  float64
		want                  float64
	}{
		{"width constrained", 540, 2000, 1080, 1920, 0.5},
		{"height constrained", 2000, 960, 1080, 1920, 0.5},
		{"exact fit", 1080, 1920, 1080, 1920, 1},
		{"square card in wide container", 800, 400, 1080, 1080, 400.0 / 1080.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeScale(tt.containerW, tt.viewportH, tt.templateW, tt.templateH)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("ComputeScale = %v, want %v", got, tt.want)
			}
		})
	}
}

// The scale is never greater than 1, however large the container is
// relative to the template.
func TestScaleNeverExceedsOne(t *testing.T) {
	cases := [][4]float64{
		{10000, 10000, 1080, 1920},
		{999999, 999999, 100, 100},
		{2160, 3840, 1080, 1920},
	}
	for _, c := range cases {
		if got := ComputeScale(c[0], c[1], c[2], c[3]); got > 1 {
			t.Errorf("ComputeScale(%v) = %v, want <= 1", c, got)
		}
	}
}

func TestDegenerateInputs(t *testing.T) {
	if got := ComputeScale(0, 1000, 1080, 1920); got != 0 {
		t.Errorf("zero container width: got %v, want 0", got)
	}
	if got := ComputeScale(1000, -5, 1080, 1920); got != 0 {
		t.Errorf("negative viewport height: got %v, want 0", got)
	}
	if got := ComputeScale(1000, 1000, 0, 1920); got != 0 {
		t.Errorf("zero template width: got %v, want 0", got)
	}
}
