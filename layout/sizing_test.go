package layout

import "testing"

func TestFitSurface(t *testing.T) {
	cases := []struct {
		name            string
		nw, nh          int
		container, maxH float64
		wantW, wantH    int
	}{
		{"natural fits", 400, 300, 800, 700, 400, 300},
		{"constrained by container", 1200, 600, 800, 700, 800, 400},
		{"unconstrained container", 1200, 600, 0, 700, 1200, 600},
		{"height capped", 500, 1000, 800, 700, 350, 700},
		{"container then cap", 1000, 2000, 600, 700, 350, 700},
		{"rounding", 333, 251, 200, 700, 200, 151},
		{"default cap", 100, 1000, 0, 0, 70, 700},
		{"degenerate", 0, 100, 800, 700, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, h := FitSurface(tc.nw, tc.nh, tc.container, tc.maxH)
			if w != tc.wantW || h != tc.wantH {
				t.Fatalf("FitSurface(%d,%d,%g,%g) = %dx%d, want %dx%d", tc.nw, tc.nh, tc.container, tc.maxH, w, h, tc.wantW, tc.wantH)
			}
		})
	}
}
