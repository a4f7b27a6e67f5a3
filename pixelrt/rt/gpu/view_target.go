package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

const (
	CanvasColorFormat  = wgpu.TextureFormatRGBA8Unorm
	CanvasDepthFormat  = wgpu.TextureFormatDepth32Float
	CanvasNormalFormat = wgpu.TextureFormatRGBA8Unorm
)

// NoGeometryNormal is what the prepass clears the normal target to: an
// up-facing normal encoded into 0..1.
var NoGeometryNormal = wgpu.Color{R: 0.5, G: 1, B: 0.5, A: 1}

// PostProcessWrite is the source/destination pair handed to a
// post-processing stage. After the call the destination is the main texture.
type PostProcessWrite struct {
	Source      *wgpu.TextureView
	Destination *wgpu.TextureView
}

type pingPong struct {
	main int
}

func (p *pingPong) flip() (src, dst int) {
	src = p.main
	dst = 1 - p.main
	p.main = dst
	return src, dst
}

// ViewTarget owns the fixed-resolution canvas: two color textures used
// alternately by post-processing, plus the prepass depth and normal targets.
type ViewTarget struct {
	Width, Height uint32

	color      [2]*wgpu.Texture
	colorViews [2]*wgpu.TextureView

	Depth      *wgpu.Texture
	DepthView  *wgpu.TextureView
	Normal     *wgpu.Texture
	NormalView *wgpu.TextureView

	main pingPong
}

// NewViewTarget allocates the canvas targets; label prefixes every texture.
func NewViewTarget(device *wgpu.Device, label string, width, height uint32) (*ViewTarget, error) {
	if label == "" {
		label = "Canvas"
	}
	v := &ViewTarget{Width: width, Height: height}
	size := wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1}

	for i := range v.color {
		tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         fmt.Sprintf("%s Color %d", label, i),
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     wgpu.TextureDimension2D,
			Format:        CanvasColorFormat,
			Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopySrc,
		})
		if err != nil {
			v.Release()
			return nil, fmt.Errorf("canvas color %d: %w", i, err)
		}
		v.color[i] = tex
		if v.colorViews[i], err = tex.CreateView(nil); err != nil {
			v.Release()
			return nil, fmt.Errorf("canvas color view %d: %w", i, err)
		}
	}

	var err error
	v.Depth, err = device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label + " Depth",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        CanvasDepthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		v.Release()
		return nil, fmt.Errorf("canvas depth: %w", err)
	}
	if v.DepthView, err = v.Depth.CreateView(nil); err != nil {
		v.Release()
		return nil, fmt.Errorf("canvas depth view: %w", err)
	}

	v.Normal, err = device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label + " Normal",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        CanvasNormalFormat,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		v.Release()
		return nil, fmt.Errorf("canvas normal: %w", err)
	}
	if v.NormalView, err = v.Normal.CreateView(nil); err != nil {
		v.Release()
		return nil, fmt.Errorf("canvas normal view: %w", err)
	}
	return v, nil
}

func (v *ViewTarget) MainView() *wgpu.TextureView {
	return v.colorViews[v.main.main]
}

func (v *ViewTarget) MainTexture() *wgpu.Texture {
	return v.color[v.main.main]
}

// PostProcessWrite flips the main texture. Only call it when the stage is
// actually going to draw, otherwise the next stage reads a stale target.
func (v *ViewTarget) PostProcessWrite() PostProcessWrite {
	pp := v.PeekPostProcessWrite()
	v.CommitPostProcessWrite()
	return pp
}

// PeekPostProcessWrite returns the pair PostProcessWrite would hand out
// without changing the main texture.
func (v *ViewTarget) PeekPostProcessWrite() PostProcessWrite {
	src, dst := v.main.main, 1-v.main.main
	return PostProcessWrite{Source: v.colorViews[src], Destination: v.colorViews[dst]}
}

// CommitPostProcessWrite makes the peeked destination the main texture.
func (v *ViewTarget) CommitPostProcessWrite() {
	v.main.flip()
}

func (v *ViewTarget) Release() {
	for i := range v.color {
		if v.colorViews[i] != nil {
			v.colorViews[i].Release()
			v.colorViews[i] = nil
		}
		if v.color[i] != nil {
			v.color[i].Release()
			v.color[i] = nil
		}
	}
	if v.DepthView != nil {
		v.DepthView.Release()
		v.DepthView = nil
	}
	if v.Depth != nil {
		v.Depth.Release()
		v.Depth = nil
	}
	if v.NormalView != nil {
		v.NormalView.Release()
		v.NormalView = nil
	}
	if v.Normal != nil {
		v.Normal.Release()
		v.Normal = nil
	}
}
