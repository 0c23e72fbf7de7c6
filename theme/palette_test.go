package theme

import (
	"strings"
	"testing"

	"github.com/Southclaws/fault/ftag"
)

func TestDefaultPalette(t *testing.T) {
	p := DefaultPalette()
	if p.Name != "plasma" {
		t.Errorf("Name = %q, want plasma", p.Name)
	}
	if len(p.Colors) != 11 {
		t.Fatalf("got %d colors, want 11", len(p.Colors))
	}
	if p.Colors[0] != (RGB{13, 8, 135}) {
		t.Errorf("first color = %v", p.Colors[0])
	}
}

func TestParseSkipsJunk(t *testing.T) {
	src := `GIMP Palette
Name: tiny
Columns: 2
# comment
0 0 0 black
not a color
300 0 0 out of range
255 255 255	white
`
	p, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Colors) != 2 {
		t.Fatalf("got %v", p.Colors)
	}
	if p.Colors[1] != (RGB{255, 255, 255}) {
		t.Errorf("second color = %v", p.Colors[1])
	}
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse(strings.NewReader("GIMP Palette\nName: none\n"))
	if err == nil {
		t.Fatal("expected error for palette without colors")
	}
	if ftag.Get(err) != ftag.InvalidArgument {
		t.Errorf("tag = %v, want InvalidArgument", ftag.Get(err))
	}
}

func TestLoadGPLMissing(t *testing.T) {
	_, err := LoadGPL(t.TempDir() + "/nope.gpl")
	if ftag.Get(err) != ftag.NotFound {
		t.Errorf("tag = %v, want NotFound", ftag.Get(err))
	}
}

func TestLookupEndpoints(t *testing.T) {
	p := &Palette{Colors: []RGB{{0, 0, 0}, {255, 255, 255}}}
	if got := p.Lookup(-1); got != p.Colors[0] {
		t.Errorf("Lookup(-1) = %v", got)
	}
	if got := p.Lookup(2); got != p.Colors[1] {
		t.Errorf("Lookup(2) = %v", got)
	}
	mid := p.Lookup(0.5)
	if mid[0] == 0 || mid[0] == 255 {
		t.Errorf("Lookup(0.5) = %v, want a blend", mid)
	}
	if absDiff(mid[0], mid[1]) > 1 || absDiff(mid[1], mid[2]) > 1 {
		t.Errorf("gray blend should stay gray, got %v", mid)
	}
}

func TestHex(t *testing.T) {
	if got := (RGB{255, 0, 16}).Hex(); got != "#ff0010" {
		t.Errorf("Hex = %q", got)
	}
}

func TestIndexClamps(t *testing.T) {
	p := DefaultPalette()
	if p.Index(-5) != p.Colors[0] || p.Index(99) != p.Colors[len(p.Colors)-1] {
		t.Error("Index should clamp")
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
