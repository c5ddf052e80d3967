package layout

import (
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.NRGBA
	}{
		{"#ffffff", color.NRGBA{255, 255, 255, 255}},
		{"#000", color.NRGBA{0, 0, 0, 255}},
		{"#F0A", color.NRGBA{0xff, 0x00, 0xaa, 0xff}},
		{"#11223344", color.NRGBA{0x11, 0x22, 0x33, 0x44}},
		{"white", color.NRGBA{255, 255, 255, 255}},
		{"Black", color.NRGBA{0, 0, 0, 255}},
		{"rgba(0, 123, 255, 0.8)", color.NRGBA{0, 123, 255, 204}},
		{"rgb(300, -5, 10)", color.NRGBA{255, 0, 10, 255}},
		{"transparent", color.NRGBA{}},
	}
	for _, tc := range cases {
		got, err := ParseColor(tc.in)
		if err != nil {
			t.Fatalf("ParseColor(%q) 返回错误: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseColor(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseColorRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "#12", "#zzzzzz", "rgb(1,2)", "notacolor"} {
		if _, err := ParseColor(in); err == nil {
			t.Fatalf("ParseColor(%q) 应返回错误", in)
		}
	}
	fallback := color.NRGBA{1, 2, 3, 255}
	if got := ColorOr("nope", fallback); got != fallback {
		t.Fatalf("ColorOr 应回退, got %v", got)
	}
}
