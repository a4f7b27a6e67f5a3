package pixelcam

import (
	"github.com/gekko3d/pixelcam/pixelrt/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultPlayerSpeed = 50.0
	// PlayerSnapDivisor splits a texel into the grid the player moves on.
	PlayerSnapDivisor = 3.0
)

// Player walks on the XZ plane. Position is the continuous ground position;
// the entity's Transform shows it snapped to a third of a texel.
type Player struct {
	Position mgl32.Vec2
	Height   float32
	Speed    float32
}

func NewPlayer(position mgl32.Vec3) Player {
	return Player{
		Position: mgl32.Vec2{position[0], position[2]},
		Height:   position[1],
		Speed:    DefaultPlayerSpeed,
	}
}

// Move advances the ground position by one frame of input.
func (p *Player) Move(dir mgl32.Vec2, dt float32) {
	p.Position = p.Position.Add(core.NormalizeOrZero(dir).Mul(p.Speed * dt))
}

// Rendered is the world position for a texel size. ok is false while the
// window has not been fitted.
func (p Player) Rendered(texelSize float32) (mgl32.Vec3, bool) {
	if texelSize <= 0 {
		return mgl32.Vec3{}, false
	}
	s := core.Snap(p.Position, texelSize/PlayerSnapDivisor)
	return mgl32.Vec3{s[0], p.Height, s[1]}, true
}

// playerExists reports whether WASD belongs to a player this frame.
func playerExists(cmd *Commands) bool {
	found := false
	MakeQuery1[Player](cmd).Map(func(EntityId, *Player) bool {
		found = true
		return false
	})
	return found
}

func playerMovementSystem(input *Input, t *Time, size *WindowSize, cmd *Commands) {
	if size.TexelSize == 0 {
		return
	}
	dir := mgl32.Vec2{input.Axis(KeyA, KeyD), input.Axis(KeyS, KeyW)}
	dt := t.Seconds()
	MakeQuery2[Player, Transform](cmd).Map(func(_ EntityId, p *Player, tr *Transform) bool {
		p.Move(dir, dt)
		if pos, ok := p.Rendered(size.TexelSize); ok {
			tr.Position = pos
		}
		return true
	})
}
