package spatial

import "testing"

func TestZoneContains(t *testing.T) {
	z := Zone{Lo: Point{16, 16}, Hi: Point{32, 32}}

	cases := []struct {
		p    Point
		want bool
	}{
		{Point{16, 16}, true},
		{Point{31, 31}, true},
		{Point{32, 16}, false},
		{Point{15, 16}, false},
	}

	for _, c := range cases {
		if got := z.Contains(c.p); got != c.want {
			t.Errorf("Zone(%+v).Contains(%+v) = %v, want %v", z, c.p, got, c.want)
		}
	}
}
