package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresentation_CentresAndOffsets(t *testing.T) {
	p := NewPresentation(640, 360, 1280, 720, 2, mgl32.Vec2{})
	assert.Equal(t, mgl32.Vec2{0, 0}, p.Origin())

	// Odd margins floor so the canvas stays on whole pixels.
	p = NewPresentation(640, 360, 1281, 723, 2, mgl32.Vec2{})
	assert.Equal(t, mgl32.Vec2{0, 1}, p.Origin())

	// Canvas offsets are texels with +y up.
	p = NewPresentation(640, 360, 1280, 720, 2, mgl32.Vec2{0.5, 0.25})
	assert.Equal(t, mgl32.Vec2{1, -0.5}, p.Offset)
}

func TestPresentation_Bytes(t *testing.T) {
	b := NewPresentation(640, 360, 1280, 720, 2, mgl32.Vec2{1, 1}).Bytes()
	require.Len(t, b, PresentationUniformSize)
	f := func(i int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:])) }
	assert.Equal(t, float32(640), f(0))
	assert.Equal(t, float32(720), f(3))
	assert.Equal(t, float32(2), f(4))
	assert.Equal(t, float32(-2), f(5))
	assert.Equal(t, float32(2), f(6))
}

func TestPresentNode_NoSurfaceIsNoop(t *testing.T) {
	n := &PresentNode{}
	assert.NoError(t, n.Run(&RenderContext{}))
}

func TestUnpackRows(t *testing.T) {
	w, h := uint32(2), uint32(2)
	bpr := AlignedBytesPerRow(w)
	assert.Equal(t, uint32(256), bpr)

	data := make([]byte, bpr*h)
	for y := uint32(0); y < h; y++ {
		for i := uint32(0); i < w*4; i++ {
			data[y*bpr+i] = byte(y*10 + i)
		}
	}
	out := UnpackRows(data, w, h, bpr)
	require.Len(t, out, 16)
	assert.Equal(t, byte(0), out[0])
	assert.Equal(t, byte(7), out[7])
	assert.Equal(t, byte(10), out[8])
	assert.Equal(t, uint32(512), AlignedBytesPerRow(65))
}

func TestCanvasReadback_RequestWithoutBuffer(t *testing.T) {
	var r CanvasReadback
	r.Request()
	assert.True(t, r.Pending())
	require.NoError(t, r.Run(&RenderContext{}))
	r.Poll()
	assert.Empty(t, r.Take())
	assert.True(t, r.Pending(), "request survives until a buffer exists")
}
