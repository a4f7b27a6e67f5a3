package gpu

import (
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

type readbackState int

const (
	readbackIdle readbackState = iota
	readbackCopy
	readbackMapping
	readbackMapped
)

// AlignedBytesPerRow pads an RGBA8 row to the 256-byte copy alignment.
func AlignedBytesPerRow(width uint32) uint32 {
	return (width*4 + 255) &^ uint32(255)
}

// CanvasFrame is one read back canvas image, rows tightly packed RGBA8.
// TexelSize is the window pixels per canvas texel when the copy was recorded.
type CanvasFrame struct {
	Width, Height uint32
	Pixels        []byte
	Frame         uint64
	TexelSize     float32
}

// UnpackRows strips the row padding of a texture-to-buffer copy.
func UnpackRows(data []byte, width, height, bytesPerRow uint32) []byte {
	row := width * 4
	out := make([]byte, int(row)*int(height))
	for y := uint32(0); y < height; y++ {
		start := y * bytesPerRow
		if uint64(start)+uint64(row) > uint64(len(data)) {
			break
		}
		copy(out[y*row:(y+1)*row], data[start:start+row])
	}
	return out
}

// CanvasReadback copies the composited canvas into a mappable buffer when a
// capture has been requested. The copy, map and read happen on successive
// frames so the render thread never waits on the GPU.
type CanvasReadback struct {
	mu        sync.Mutex
	state     readbackState
	requested bool
	buffer    *wgpu.Buffer
	width     uint32
	height    uint32
	frame     uint64
	texelSize float32

	done []CanvasFrame
}

func (r *CanvasReadback) Allocate(device *wgpu.Device, width, height uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.buffer != nil {
		return nil
	}
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Canvas Readback",
		Size:  uint64(AlignedBytesPerRow(width)) * uint64(height),
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
	})
	if err != nil {
		return err
	}
	r.buffer = buf
	r.width = width
	r.height = height
	r.state = readbackIdle
	return nil
}

// Request asks for the next composited frame. Requests made while a copy is
// in flight are served after it completes.
func (r *CanvasReadback) Request() {
	r.mu.Lock()
	r.requested = true
	r.mu.Unlock()
}

func (r *CanvasReadback) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requested || r.state != readbackIdle
}

// Run records the texture copy. It is a graph node placed after
// post-processing so the copy sees the final canvas.
func (r *CanvasReadback) Run(ctx *RenderContext) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.requested || r.state != readbackIdle || r.buffer == nil {
		return nil
	}
	if ctx.Encoder == nil || ctx.View == nil {
		return nil
	}

	ctx.Encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  ctx.View.MainTexture(),
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
		},
		&wgpu.ImageCopyBuffer{
			Buffer: r.buffer,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  AlignedBytesPerRow(r.width),
				RowsPerImage: r.height,
			},
		},
		&wgpu.Extent3D{Width: r.width, Height: r.height, DepthOrArrayLayers: 1},
	)
	r.requested = false
	r.state = readbackCopy
	r.frame = ctx.Frame
	r.texelSize = ctx.TexelSize
	return nil
}

// Poll advances the state machine. Call it after the frame's submission.
func (r *CanvasReadback) Poll() {
	r.mu.Lock()
	if r.state == readbackCopy {
		r.state = readbackMapping
		buf := r.buffer
		r.mu.Unlock()
		buf.MapAsync(wgpu.MapModeRead, 0, buf.GetSize(), func(status wgpu.BufferMapAsyncStatus) {
			r.mu.Lock()
			defer r.mu.Unlock()
			if status == wgpu.BufferMapAsyncStatusSuccess {
				r.state = readbackMapped
			} else {
				r.state = readbackIdle
			}
		})
		r.mu.Lock()
	}

	if r.state == readbackMapped {
		size := r.buffer.GetSize()
		data := r.buffer.GetMappedRange(0, uint(size))
		pixels := UnpackRows(data, r.width, r.height, AlignedBytesPerRow(r.width))
		r.buffer.Unmap()
		r.done = append(r.done, CanvasFrame{
			Width:     r.width,
			Height:    r.height,
			Pixels:    pixels,
			Frame:     r.frame,
			TexelSize: r.texelSize,
		})
		r.state = readbackIdle
	}
	r.mu.Unlock()
}

// Take returns the frames read back since the last call.
func (r *CanvasReadback) Take() []CanvasFrame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.done
	r.done = nil
	return out
}

func (r *CanvasReadback) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.buffer != nil {
		r.buffer.Release()
		r.buffer = nil
	}
	r.state = readbackIdle
}
