package geometry

import "testing"

func TestContains(t *testing.T) {
	box := Box{X: 0, Y: 0, Width: 10, Height: 10}

	cases := []struct {
		name    string
		x, y    float64
		want    bool
	}{
		{"center", 0, 0, true},
		{"strictly inside", 4, 4, true},
		{"on right edge", 5, 0, false},
		{"on top edge", 0, 5, false},
		{"on corner", 5, 5, false},
		{"outside", 6, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Contains(box, tc.x, tc.y); got != tc.want {
				t.Errorf("Contains(%v, %v, %v) = %v, want %v", box, tc.x, tc.y, got, tc.want)
			}
		})
	}
}

func TestOverlap(t *testing.T) {
	a := Box{X: 0, Y: 0, Width: 10, Height: 10}

	cases := []struct {
		name string
		b    Box
		want bool
	}{
		{"identical", Box{X: 0, Y: 0, Width: 10, Height: 10}, true},
		{"adjacent on x", Box{X: 10, Y: 0, Width: 10, Height: 10}, false},
		{"adjacent on y", Box{X: 0, Y: 10, Width: 10, Height: 10}, false},
		{"overlapping", Box{X: 9, Y: 0, Width: 10, Height: 10}, true},
		{"far away", Box{X: 100, Y: 100, Width: 10, Height: 10}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlap(a, tc.b); got != tc.want {
				t.Errorf("Overlap(%v, %v) = %v, want %v", a, tc.b, got, tc.want)
			}
		})
	}
}
