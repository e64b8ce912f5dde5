// Package render draws QR codes for already-encoded payload text. The core
// codecs never inspect pixels; everything they produce passes through here
// opaquely.
package render

import (
	"fmt"
	"image/color"

	qrcode "github.com/skip2/go-qrcode"
)

// Options controls the rendered image. Zero values fall back to defaults.
type Options struct {
	SizePx      int    // output edge length in pixels, default 256
	ECLevel     string // "L", "M", "Q" or "H", default "M"
	DarkColor   string // hex "#rrggbb", default black
	LightColor  string // hex "#rrggbb", default white
	NoQuietZone bool   // drop the border modules
}

const defaultSizePx = 256

var ecLevels = map[string]qrcode.RecoveryLevel{
	"L": qrcode.Low,
	"M": qrcode.Medium,
	"Q": qrcode.High,
	"H": qrcode.Highest,
}

// PNG renders text as a PNG image.
func PNG(text string, o Options) ([]byte, error) {
	level, ok := ecLevels[o.ECLevel]
	if o.ECLevel == "" {
		level, ok = qrcode.Medium, true
	}
	if !ok {
		return nil, fmt.Errorf("render: unknown error-correction level %q", o.ECLevel)
	}

	q, err := qrcode.New(text, level)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	if o.DarkColor != "" {
		c, err := parseHexColor(o.DarkColor)
		if err != nil {
			return nil, err
		}
		q.ForegroundColor = c
	}
	if o.LightColor != "" {
		c, err := parseHexColor(o.LightColor)
		if err != nil {
			return nil, err
		}
		q.BackgroundColor = c
	}
	q.DisableBorder = o.NoQuietZone

	size := o.SizePx
	if size <= 0 {
		size = defaultSizePx
	}
	return q.PNG(size)
}

func parseHexColor(s string) (color.Color, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return nil, fmt.Errorf("render: bad color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}, nil
}
