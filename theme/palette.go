package theme

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	colorful "github.com/lucasb-eyer/go-colorful"
)

//go:embed palettes/plasma.gpl
var defaultGPL []byte

type RGB [3]uint8

// Hex returns the color as #rrggbb.
func (c RGB) Hex() string {
	return c.colorful().Hex()
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{R: float64(c[0]) / 255, G: float64(c[1]) / 255, B: float64(c[2]) / 255}
}

type Palette struct {
	Name   string
	Colors []RGB
}

// DefaultPalette returns the built-in palette.
func DefaultPalette() *Palette {
	p, err := Parse(bytes.NewReader(defaultGPL))
	if err != nil {
		panic(fmt.Errorf("theme: default palette: %w", err))
	}
	return p
}

// Parse reads a GIMP .gpl palette. Lines that are not colors are skipped.
func Parse(r io.Reader) (*Palette, error) {
	p := &Palette{}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "Name:") {
			p.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
			continue
		}

		if line == "" || line[0] == '#' || strings.HasPrefix(line, "GIMP") || strings.HasPrefix(line, "Columns") {
			continue
		}

		// R G B [name]
		fields := strings.Fields(line)
		if len(fields) >= 3 {
			r, err1 := strconv.Atoi(fields[0])
			g, err2 := strconv.Atoi(fields[1])
			b, err3 := strconv.Atoi(fields[2])
			if err1 == nil && err2 == nil && err3 == nil && inByte(r) && inByte(g) && inByte(b) {
				p.Colors = append(p.Colors, RGB{uint8(r), uint8(g), uint8(b)})
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fault.Wrap(err, fmsg.With("read palette"))
	}

	if len(p.Colors) == 0 {
		return nil, fault.Wrap(fault.New("no colors found"), ftag.With(ftag.InvalidArgument))
	}

	return p, nil
}

func inByte(v int) bool { return v >= 0 && v <= 255 }

func LoadGPL(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("open palette"), ftag.With(ftag.NotFound))
	}
	defer f.Close()

	p, err := Parse(f)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With(fmt.Sprintf("palette %s", path)))
	}
	return p, nil
}

// LoadOrDefault loads path, or the built-in palette when path is empty.
func LoadOrDefault(path string) (*Palette, error) {
	if path == "" {
		return DefaultPalette(), nil
	}
	return LoadGPL(path)
}

// Lookup returns the color for a normalized value 0-1, blended in Lab
// space between the two nearest palette entries.
func (p *Palette) Lookup(norm float64) RGB {
	if norm <= 0 || math.IsNaN(norm) {
		return p.Colors[0]
	}
	if norm >= 1 {
		return p.Colors[len(p.Colors)-1]
	}

	pos := norm * float64(len(p.Colors)-1)
	i := int(pos)
	frac := pos - float64(i)

	c0 := p.Colors[i].colorful()
	c1 := p.Colors[i+1].colorful()

	r, g, b := c0.BlendLab(c1, frac).Clamped().RGB255()
	return RGB{r, g, b}
}

// Index returns color at specific index (no interpolation)
func (p *Palette) Index(i int) RGB {
	if i < 0 {
		return p.Colors[0]
	}
	if i >= len(p.Colors) {
		return p.Colors[len(p.Colors)-1]
	}
	return p.Colors[i]
}
