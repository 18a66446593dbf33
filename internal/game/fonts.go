package game

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
)

// Font sizes in pixels.
const (
	fontSmall = 11
	fontBody  = 13
	fontLabel = 16
	fontTitle = 26
	fontHero  = 56
)

// fontSet holds the two embedded faces the UI uses: mono for data, bold for titles.
type fontSet struct {
	mono *text.GoTextFaceSource
	bold *text.GoTextFaceSource
}

func loadFonts() (*fontSet, error) {
	mono, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		return nil, fmt.Errorf("load mono font: %w", err)
	}
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}
	return &fontSet{mono: mono, bold: bold}, nil
}

func (f *fontSet) monoFace(size float64) *text.GoTextFace {
	return &text.GoTextFace{Source: f.mono, Size: size}
}

func (f *fontSet) boldFace(size float64) *text.GoTextFace {
	return &text.GoTextFace{Source: f.bold, Size: size}
}

// drawText draws s with its top-left corner at (x, y).
func drawText(dst *ebiten.Image, s string, face text.Face, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, face, op)
}

// drawTextCentered centres s on (cx, cy).
func drawTextCentered(dst *ebiten.Image, s string, face text.Face, cx, cy float64, clr color.Color) {
	w, h := text.Measure(s, face, 0)
	drawText(dst, s, face, cx-w/2, cy-h/2, clr)
}
