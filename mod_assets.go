package pixelcam

import (
	"github.com/gekko3d/pixelcam/pixelrt/rt/core"
	"github.com/google/uuid"
)

type AssetId string

type TextureFormat uint32

const TextureFormatRGBA8Unorm TextureFormat = 0x00000012

// ImageAsset describes an image the renderer owns. Render targets carry no
// texels on the CPU side.
type ImageAsset struct {
	Width        uint32
	Height       uint32
	Format       TextureFormat
	RenderTarget bool
	Label        string
}

type MeshAsset struct {
	core.MeshData
}

type AssetServer struct {
	images map[AssetId]ImageAsset
	meshes map[AssetId]MeshAsset
}

func NewAssetServer() *AssetServer {
	return &AssetServer{
		images: make(map[AssetId]ImageAsset),
		meshes: make(map[AssetId]MeshAsset),
	}
}

// CreateRenderTarget registers an offscreen color target of w×h texels.
func (server *AssetServer) CreateRenderTarget(label string, w, h uint32) AssetId {
	id := makeAssetId()
	server.images[id] = ImageAsset{
		Width:        w,
		Height:       h,
		Format:       TextureFormatRGBA8Unorm,
		RenderTarget: true,
		Label:        label,
	}
	return id
}

func (server *AssetServer) Image(id AssetId) (ImageAsset, bool) {
	img, ok := server.images[id]
	return img, ok
}

func (server *AssetServer) LoadMesh(vertices []float32, indices []uint16) AssetId {
	id := makeAssetId()
	server.meshes[id] = MeshAsset{MeshData: core.MeshData{Vertices: vertices, Indices: indices}}
	return id
}

func (server *AssetServer) Mesh(id AssetId) (MeshAsset, bool) {
	m, ok := server.meshes[id]
	return m, ok
}

type AssetServerModule struct{}

func (AssetServerModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewAssetServer())
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
