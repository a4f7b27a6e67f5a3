package capture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checker() *image.NRGBA {
	pix := []byte{
		255, 0, 0, 255, 0, 255, 0, 255,
		0, 0, 255, 255, 255, 255, 255, 255,
	}
	img, _ := FromRGBA(pix, 2, 2)
	return img
}

func TestUpscale_NearestBlocks(t *testing.T) {
	src := checker()
	dst := Upscale(src, 3)
	require.Equal(t, image.Rect(0, 0, 6, 6), dst.Bounds())

	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			assert.Equal(t, src.NRGBAAt(x/3, y/3), dst.NRGBAAt(x, y), "pixel %d,%d", x, y)
		}
	}
	assert.Equal(t, src.Bounds(), Upscale(src, 0).Bounds())
}

func TestFromRGBA_RejectsShortBuffer(t *testing.T) {
	_, err := FromRGBA(make([]byte, 15), 2, 2)
	assert.Error(t, err)
	_, err = FromRGBA(nil, 0, 2)
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(".PNG")
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, f)
	f, err = ParseFormat("webp")
	require.NoError(t, err)
	assert.Equal(t, FormatWebP, f)
	_, err = ParseFormat("gif")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestEncode_PNGRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, checker(), FormatPNG))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, color.NRGBAModel.Convert(img.At(1, 1)))
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, color.NRGBAModel.Convert(img.At(0, 0)))
}

func TestEncode_WebPHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Upscale(checker(), 2), FormatWebP))
	require.Greater(t, buf.Len(), 12)
	assert.Equal(t, "RIFF", string(buf.Bytes()[0:4]))
	assert.Equal(t, "WEBP", string(buf.Bytes()[8:12]))
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	path, err := WriteFile(dir, checker(), FormatPNG)
	require.NoError(t, err)

	name := filepath.Base(path)
	assert.True(t, strings.HasPrefix(name, "capture-"))
	assert.True(t, strings.HasSuffix(name, ".png"))
	_, err = uuid.Parse(strings.TrimSuffix(strings.TrimPrefix(name, "capture-"), ".png"))
	assert.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}
