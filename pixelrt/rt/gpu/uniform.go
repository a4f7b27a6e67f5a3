package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/pixelcam/pixelrt/rt/core"
)

// WriteFunc uploads data to the start of buf. Renderers pass a closure over
// Queue.WriteBuffer.
type WriteFunc func(buf *wgpu.Buffer, data []byte)

// SettingsUniform holds the post-process settings on the GPU. It keeps one
// buffer per in-flight frame and alternates between them so a frame never
// overwrites the settings a previous submission still reads.
type SettingsUniform struct {
	buffers [2]*wgpu.Buffer
	scratch []byte

	frame    uint64
	current  int
	prepared bool
	settings core.PostProcessSettings
}

func NewSettingsUniform() *SettingsUniform {
	return &SettingsUniform{scratch: make([]byte, 0, core.SettingsUniformSize)}
}

func (u *SettingsUniform) Allocate(device *wgpu.Device) error {
	for i := range u.buffers {
		if u.buffers[i] != nil {
			continue
		}
		buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: fmt.Sprintf("PostProcessSettings %d", i),
			Size:  core.SettingsUniformSize,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("settings uniform %d: %w", i, err)
		}
		u.buffers[i] = buf
	}
	return nil
}

// Prepare uploads this frame's settings into the frame's slot.
func (u *SettingsUniform) Prepare(frame uint64, s core.PostProcessSettings, write WriteFunc) bool {
	slot := int(frame % uint64(len(u.buffers)))
	buf := u.buffers[slot]
	if buf == nil {
		u.prepared = false
		return false
	}
	u.scratch = s.AppendBytes(u.scratch[:0])
	write(buf, u.scratch)

	u.frame = frame
	u.current = slot
	u.settings = s
	u.prepared = true
	return true
}

// Binding returns the buffer prepared for the current frame, or false when
// nothing has been uploaded yet.
func (u *SettingsUniform) Binding() (*wgpu.Buffer, bool) {
	if !u.prepared || u.buffers[u.current] == nil {
		return nil, false
	}
	return u.buffers[u.current], true
}

func (u *SettingsUniform) Settings() core.PostProcessSettings { return u.settings }

func (u *SettingsUniform) Frame() uint64 { return u.frame }

func (u *SettingsUniform) Release() {
	for i, b := range u.buffers {
		if b != nil {
			b.Release()
			u.buffers[i] = nil
		}
	}
	u.prepared = false
}
