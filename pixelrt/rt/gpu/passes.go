package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// PrepassNode clears and fills the depth and normal targets.
type PrepassNode struct{}

func (PrepassNode) Run(ctx *RenderContext) error {
	if ctx.Encoder == nil || ctx.View == nil {
		return nil
	}
	pass := ctx.Encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Prepass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       ctx.View.NormalView,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: NoGeometryNormal,
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            ctx.View.DepthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
	if ctx.Scene != nil {
		ctx.Scene.DrawPrepass(pass, ctx)
	}
	if err := pass.End(); err != nil {
		return fmt.Errorf("prepass: %w", err)
	}
	return nil
}

// MainPassNode renders opaque color into the main canvas texture, testing
// against the prepass depth.
type MainPassNode struct {
	ClearColor wgpu.Color
}

func (n MainPassNode) Run(ctx *RenderContext) error {
	if ctx.Encoder == nil || ctx.View == nil {
		return nil
	}
	pass := ctx.Encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Main Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       ctx.View.MainView(),
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: n.ClearColor,
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:         ctx.View.DepthView,
			DepthLoadOp:  wgpu.LoadOpLoad,
			DepthStoreOp: wgpu.StoreOpStore,
		},
	})
	if ctx.Scene != nil {
		ctx.Scene.DrawMain(pass, ctx)
	}
	if err := pass.End(); err != nil {
		return fmt.Errorf("main pass: %w", err)
	}
	return nil
}
