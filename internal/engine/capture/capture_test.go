package capture

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x2 image: red bottom row, blue top row
var bottomUp = []byte{
	255, 0, 0, 255,
	0, 0, 255, 255,
}

func TestFromBottomUp(t *testing.T) {
	img, err := FromBottomUp(bottomUp, 1, 2)
	require.NoError(t, err)

	assert.Equal(t, color.RGBA{0, 0, 255, 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(0, 1))
}

func TestFromBottomUpRejectsBadInput(t *testing.T) {
	_, err := FromBottomUp(bottomUp, 2, 2)
	assert.ErrorContains(t, err, "mismatch")

	_, err = FromBottomUp(nil, 0, 0)
	assert.Error(t, err)
}

func TestSavePixels(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	c := New(dir, "scene")
	c.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 8e6, time.UTC) }

	path, err := c.SavePixels(bottomUp, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "scene_2026-03-04_05-06-07.008.png"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dy())
	r, _, b, _ := img.At(0, 0).RGBA()
	assert.Zero(t, r)
	assert.NotZero(t, b)
}
