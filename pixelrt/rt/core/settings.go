package core

import (
	"encoding/binary"
)

// VisualizationMode selects what the composite stage shows.
type VisualizationMode int32

const (
	ModeColor VisualizationMode = iota
	ModeDepth
	ModeNormals

	modeCount
)

func (m VisualizationMode) String() string {
	switch m {
	case ModeColor:
		return "color"
	case ModeDepth:
		return "depth"
	case ModeNormals:
		return "normals"
	}
	return "unknown"
}

// Next advances the mode cyclically: color -> depth -> normals -> color.
func (m VisualizationMode) Next() VisualizationMode {
	n := (m + 1) % modeCount
	if n < 0 {
		n += modeCount
	}
	return n
}

// PostProcessSettings is the simulation-owned record mirrored into the
// composite uniform. Field order matches the WGSL struct.
type PostProcessSettings struct {
	ShowDepth   uint32
	ShowNormals uint32
}

// SettingsUniformSize is the padded size of PostProcessSettings on the GPU.
const SettingsUniformSize = 16

// SettingsForMode maps a mode onto the two uniform flags.
func SettingsForMode(m VisualizationMode) PostProcessSettings {
	var s PostProcessSettings
	if m == ModeDepth {
		s.ShowDepth = 1
	}
	if m == ModeNormals {
		s.ShowNormals = 1
	}
	return s
}

// Mode recovers the mode the flags encode. Depth wins if both are set.
func (s PostProcessSettings) Mode() VisualizationMode {
	switch {
	case s.ShowDepth != 0:
		return ModeDepth
	case s.ShowNormals != 0:
		return ModeNormals
	}
	return ModeColor
}

// AppendBytes writes the std140 layout of s into dst.
func (s PostProcessSettings) AppendBytes(dst []byte) []byte {
	var buf [SettingsUniformSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], s.ShowDepth)
	binary.LittleEndian.PutUint32(buf[4:8], s.ShowNormals)
	return append(dst, buf[:]...)
}

func (s PostProcessSettings) Bytes() []byte {
	return s.AppendBytes(make([]byte, 0, SettingsUniformSize))
}
