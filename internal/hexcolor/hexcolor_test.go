package hexcolor

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"#1a2b3c", "#1A2B3C"},
		{"1A2B3C", "#1A2B3C"},
		{"abc", "#AABBCC"},
		{"#abc", "#AABBCC"},
		{"#F00", "#FF0000"},
		{"  #ffffff ", "#FFFFFF"},
		{"", ""},
		{"#", ""},
		{"12345", ""},
		{"1234567", ""},
		{"#gggggg", ""},
		{"#12x45z", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNibbleDistanceIdentity(t *testing.T) {
	for _, c := range []string{"#000000", "#FFFFFF", "#1A2B3C", "#A06540"} {
		if d := NibbleDistance(c, c); d != 0 {
			t.Errorf("NibbleDistance(%s, %s) = %d, want 0", c, c, d)
		}
	}
}

func TestNibbleDistanceSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"#000000", "#FFFFFF"},
		{"#1A2B3C", "#A06540"},
		{"#123456", "#654321"},
	}
	for _, p := range pairs {
		ab := NibbleDistance(p[0], p[1])
		ba := NibbleDistance(p[1], p[0])
		if ab != ba {
			t.Errorf("NibbleDistance not symmetric for %v: %d vs %d", p, ab, ba)
		}
	}
}

func TestNibbleDistanceMax(t *testing.T) {
	if d := NibbleDistance("#000000", "#FFFFFF"); d != MaxNibbleDistance {
		t.Errorf("max distance = %d, want %d", d, MaxNibbleDistance)
	}
}

func TestNibbleDistanceWeights(t *testing.T) {
	// High nibble of a channel counts 8x, low nibble 1x.
	if d := NibbleDistance("#100000", "#000000"); d != 8 {
		t.Errorf("high-nibble red delta = %d, want 8", d)
	}
	if d := NibbleDistance("#010000", "#000000"); d != 1 {
		t.Errorf("low-nibble red delta = %d, want 1", d)
	}
	if d := NibbleDistance("#000010", "#000000"); d != 8 {
		t.Errorf("high-nibble blue delta = %d, want 8", d)
	}
}

func TestNibbleDistanceInvalid(t *testing.T) {
	if d := NibbleDistance("1A2B3C", "#000000"); d != -1 {
		t.Errorf("expected -1 for non-canonical input, got %d", d)
	}
	if d := NibbleDistance("#000000", "bogus"); d != -1 {
		t.Errorf("expected -1 for non-canonical input, got %d", d)
	}
}

func TestManhattanDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"#000000", "#000000", 0},
		{"#000000", "#FFFFFF", MaxManhattanDistance},
		{"#100000", "#000000", 16},
		{"#0000FF", "#000000", 255},
		{"#010203", "#030201", 4},
	}
	for _, tt := range tests {
		if got := ManhattanDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("ManhattanDistance(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestComponents(t *testing.T) {
	r, g, b, ok := Components("#1A2B3C")
	if !ok {
		t.Fatal("expected ok")
	}
	if r != 0x1A || g != 0x2B || b != 0x3C {
		t.Errorf("Components = %d,%d,%d, want 26,43,60", r, g, b)
	}

	if _, _, _, ok := Components("nope"); ok {
		t.Error("expected !ok for invalid input")
	}
}
