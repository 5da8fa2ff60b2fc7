// Package palette resolves friendly names for hex colors against a fixed
// named-color table and computes readable text contrast.
package palette

import (
	"fmt"
	"math"
	"strings"
)

// NamedColor pairs a human-readable name with its hex value.
type NamedColor struct {
	Name string
	Hex  string
}

// colors is the fixed lookup palette. Distances are Euclidean in RGB space,
// which is crude but matches what users expect for "closest named color".
var colors = []NamedColor{
	{"Black", "#000000"},
	{"White", "#FFFFFF"},
	{"Red", "#FF0000"},
	{"Lime", "#00FF00"},
	{"Blue", "#0000FF"},
	{"Yellow", "#FFFF00"},
	{"Cyan", "#00FFFF"},
	{"Magenta", "#FF00FF"},
	{"Silver", "#C0C0C0"},
	{"Gray", "#808080"},
	{"Maroon", "#800000"},
	{"Olive", "#808000"},
	{"Green", "#008000"},
	{"Purple", "#800080"},
	{"Teal", "#008080"},
	{"Navy", "#000080"},
	{"Orange", "#FFA500"},
	{"Coral", "#FF7F50"},
	{"Tomato", "#FF6347"},
	{"Crimson", "#DC143C"},
	{"Salmon", "#FA8072"},
	{"Gold", "#FFD700"},
	{"Khaki", "#F0E68C"},
	{"Indigo", "#4B0082"},
	{"Violet", "#EE82EE"},
	{"Orchid", "#DA70D6"},
	{"Plum", "#DDA0DD"},
	{"Lavender", "#E6E6FA"},
	{"Turquoise", "#40E0D0"},
	{"Aquamarine", "#7FFFD4"},
	{"Sky Blue", "#87CEEB"},
	{"Steel Blue", "#4682B4"},
	{"Royal Blue", "#4169E1"},
	{"Midnight Blue", "#191970"},
	{"Forest Green", "#228B22"},
	{"Sea Green", "#2E8B57"},
	{"Olive Drab", "#6B8E23"},
	{"Chartreuse", "#7FFF00"},
	{"Sienna", "#A0522D"},
	{"Chocolate", "#D2691E"},
	{"Peru", "#CD853F"},
	{"Tan", "#D2B48C"},
	{"Rosy Brown", "#BC8F8F"},
	{"Saddle Brown", "#8B4513"},
	{"Slate Gray", "#708090"},
	{"Dim Gray", "#696969"},
	{"Gainsboro", "#DCDCDC"},
	{"Ivory", "#FFFFF0"},
	{"Beige", "#F5F5DC"},
	{"Hot Pink", "#FF69B4"},
	{"Deep Pink", "#FF1493"},
	{"Pink", "#FFC0CB"},
}

// Match is a palette lookup result.
type Match struct {
	Name     string
	Hex      string
	Distance float64
}

// ParseHex decodes a #RGB or #RRGGBB string into its components.
func ParseHex(hex string) (r, g, b int, err error) {
	s := strings.TrimPrefix(hex, "#")
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6:
	default:
		return 0, 0, 0, fmt.Errorf("palette: invalid hex color %q", hex)
	}
	var rgb [3]int
	for i := 0; i < 3; i++ {
		n, convErr := parseHexByte(s[i*2 : i*2+2])
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("palette: invalid hex color %q", hex)
		}
		rgb[i] = n
	}
	return rgb[0], rgb[1], rgb[2], nil
}

func parseHexByte(s string) (int, error) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		var v int
		switch {
		case c >= '0' && c <= '9':
			v = int(c - '0')
		case c >= 'a' && c <= 'f':
			v = int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v = int(c-'A') + 10
		default:
			return 0, fmt.Errorf("bad hex digit %q", c)
		}
		n = n*16 + v
	}
	return n, nil
}

// Exact returns the palette entry whose hex equals the input, if any.
func Exact(hex string) (Match, bool) {
	for _, c := range colors {
		if strings.EqualFold(c.Hex, normalize(hex)) {
			return Match{Name: c.Name, Hex: c.Hex}, true
		}
	}
	return Match{}, false
}

// Closest returns the palette entry nearest to the input by Euclidean RGB
// distance.
func Closest(hex string) (Match, error) {
	r, g, b, err := ParseHex(hex)
	if err != nil {
		return Match{}, err
	}
	best := Match{Distance: math.Inf(1)}
	for _, c := range colors {
		cr, cg, cb, _ := ParseHex(c.Hex)
		d := distance(r, g, b, cr, cg, cb)
		if d < best.Distance {
			best = Match{Name: c.Name, Hex: c.Hex, Distance: d}
		}
	}
	return best, nil
}

// Name resolves a friendly name: exact palette match first, else the
// nearest color.
func Name(hex string) (string, error) {
	if m, ok := Exact(hex); ok {
		return m.Name, nil
	}
	m, err := Closest(hex)
	if err != nil {
		return "", err
	}
	return m.Name, nil
}

// ContrastText returns "#000000" or "#FFFFFF", whichever reads better on
// the given background, using the YIQ brightness heuristic.
func ContrastText(hex string) string {
	r, g, b, err := ParseHex(hex)
	if err != nil {
		return "#000000"
	}
	yiq := (r*299 + g*587 + b*114) / 1000
	if yiq >= 128 {
		return "#000000"
	}
	return "#FFFFFF"
}

func distance(r1, g1, b1, r2, g2, b2 int) float64 {
	dr, dg, db := float64(r1-r2), float64(g1-g2), float64(b1-b2)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// normalize expands #RGB to #RRGGBB uppercase for exact comparison.
func normalize(hex string) string {
	s := strings.TrimPrefix(hex, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	return "#" + strings.ToUpper(s)
}
