package pixelcam

import (
	"testing"

	"github.com/gekko3d/pixelcam/pixelrt/rt/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetServer_RenderTarget(t *testing.T) {
	server := NewAssetServer()
	id := server.CreateRenderTarget("canvas", 640, 360)

	img, ok := server.Image(id)
	require.True(t, ok)
	assert.Equal(t, ImageAsset{Width: 640, Height: 360, Format: TextureFormatRGBA8Unorm, RenderTarget: true, Label: "canvas"}, img)
	assert.NotEqual(t, id, server.CreateRenderTarget("canvas", 640, 360))
}

func TestAssetServer_Mesh(t *testing.T) {
	server := NewAssetServer()
	v, i := core.CubeMesh()
	id := server.LoadMesh(v, i)

	m, ok := server.Mesh(id)
	require.True(t, ok)
	assert.Len(t, m.Indices, 36)
	assert.NoError(t, m.Validate())
	_, ok = server.Mesh(makeAssetId())
	assert.False(t, ok)
}
