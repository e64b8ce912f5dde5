package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPNGProducesDecodableImage(t *testing.T) {
	data, err := PNG("MT:0087QG00KA0648G00", Options{SizePx: 128, ECLevel: "M"})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
}

func TestPNGDefaults(t *testing.T) {
	data, err := PNG("hello", Options{})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, defaultSizePx, img.Bounds().Dx())
}

func TestPNGRejectsUnknownECLevel(t *testing.T) {
	_, err := PNG("hello", Options{ECLevel: "X"})
	assert.Error(t, err)
}

func TestPNGRejectsBadColor(t *testing.T) {
	_, err := PNG("hello", Options{DarkColor: "red"})
	assert.Error(t, err)
}

func TestParseHexColor(t *testing.T) {
	c, err := parseHexColor("#1a2b3c")
	require.NoError(t, err)
	r, g, b, a := c.RGBA()
	assert.Equal(t, uint32(0x1a1a), r)
	assert.Equal(t, uint32(0x2b2b), g)
	assert.Equal(t, uint32(0x3c3c), b)
	assert.Equal(t, uint32(0xffff), a)
}
