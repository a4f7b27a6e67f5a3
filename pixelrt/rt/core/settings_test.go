package core

import (
	"encoding/binary"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisualizationMode_CyclesBackAfterThree(t *testing.T) {
	for _, start := range []VisualizationMode{ModeColor, ModeDepth, ModeNormals} {
		m := start
		for i := 0; i < 3; i++ {
			m = m.Next()
		}
		assert.Equal(t, start, m)
	}
}

func TestSettingsForMode(t *testing.T) {
	assert.Equal(t, PostProcessSettings{0, 0}, SettingsForMode(ModeColor))
	assert.Equal(t, PostProcessSettings{1, 0}, SettingsForMode(ModeDepth))
	assert.Equal(t, PostProcessSettings{0, 1}, SettingsForMode(ModeNormals))

	for _, m := range []VisualizationMode{ModeColor, ModeDepth, ModeNormals} {
		assert.Equal(t, m, SettingsForMode(m).Mode())
	}
	assert.Equal(t, "normals", ModeNormals.String())
}

func TestPostProcessSettings_Bytes(t *testing.T) {
	b := PostProcessSettings{ShowDepth: 1, ShowNormals: 0}.Bytes()
	require.Len(t, b, SettingsUniformSize)
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(b[0:4]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(b[4:8]))
	assert.Equal(t, make([]byte, 8), b[8:])

	dst := PostProcessSettings{ShowNormals: 1}.AppendBytes([]byte{0xff})
	require.Len(t, dst, SettingsUniformSize+1)
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(dst[5:9]))
}

func TestCompositeTexel(t *testing.T) {
	color := mgl32.Vec4{0.2, 0.4, 0.6, 1}
	normal := mgl32.Vec3{0.5, 1, 0.5}

	assert.Equal(t, color, CompositeTexel(color, 0.3, normal, SettingsForMode(ModeColor)))
	assert.Equal(t, mgl32.Vec4{0.3, 0.3, 0.3, 1}, CompositeTexel(color, 0.3, normal, SettingsForMode(ModeDepth)))
	assert.Equal(t, mgl32.Vec4{0.5, 1, 0.5, 1}, CompositeTexel(color, 0.3, normal, SettingsForMode(ModeNormals)))
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, CompositeTexel(color, 4, normal, SettingsForMode(ModeDepth)))
}

func TestWorldToViewport_CentreMapsToMiddle(t *testing.T) {
	q := LookRotation(mgl32.Vec3{1, 1, -1}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	eye := mgl32.Vec3{10, 10, -10}
	viewProj := OrthoProjection(DefaultResWidth, DefaultResHeight, 1).Mul4(ViewMatrix(eye, q))

	vp, ok := WorldToViewport(viewProj, eye, DefaultResWidth, DefaultResHeight)
	require.True(t, ok)
	assert.InDelta(t, 320, vp[0], 1e-3)
	assert.InDelta(t, 180, vp[1], 1e-3)

	step := FollowStep(vp, DefaultResWidth, DefaultResHeight, FollowGain)
	assert.InDelta(t, 0, step.Len(), 1e-4)

	right, _ := CameraAxes(q)
	vp, ok = WorldToViewport(viewProj, eye.Add(right.Mul(32)), DefaultResWidth, DefaultResHeight)
	require.True(t, ok)
	assert.InDelta(t, 352, vp[0], 1e-2)
	step = FollowStep(vp, DefaultResWidth, DefaultResHeight, FollowGain)
	assert.InDelta(t, 0.5, step[0], 1e-3)
}

func TestQuarterTurnAngle(t *testing.T) {
	assert.InDelta(t, 0, QuarterTurnAngle(0, 0, 36), 1e-6)
	assert.InDelta(t, mgl32.DegToRad(90), QuarterTurnAngle(0, 1, 36), 1e-5)
	assert.InDelta(t, mgl32.DegToRad(180), QuarterTurnAngle(1, 1, 36), 1e-5)
	// 0.01 of a turn rounds down to the start step.
	assert.InDelta(t, 0, QuarterTurnAngle(0, 0.01, 36), 1e-6)
}
