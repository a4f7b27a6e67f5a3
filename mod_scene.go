package pixelcam

import (
	"math"

	"github.com/gekko3d/pixelcam/pixelrt/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

// Renderable draws one unit cube per part. Parts are local to the entity's
// Transform.
type Renderable struct {
	Color mgl32.Vec4
	Parts []mgl32.Mat4
}

func (r Renderable) AppendInstances(dst []core.Instance, model mgl32.Mat4) []core.Instance {
	if len(r.Parts) == 0 {
		return append(dst, core.Instance{Model: model, Color: r.Color})
	}
	for _, p := range r.Parts {
		dst = append(dst, core.Instance{Model: model.Mul4(p), Color: r.Color})
	}
	return dst
}

// box is a part of size s centred at c.
func box(c, s mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(c[0], c[1], c[2]).Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}

// Rotatable turns a quarter around +Y when R is pressed. The turn advances in
// discrete steps so silhouettes change a few texels at a time.
type Rotatable struct {
	Quarter  float32
	Duration float32
	Steps    int

	turning bool
	elapsed float32
}

const (
	DefaultTurnDuration = 1.0
	DefaultTurnSteps    = 36
)

func NewRotatable() Rotatable {
	return Rotatable{Duration: DefaultTurnDuration, Steps: DefaultTurnSteps}
}

func (r *Rotatable) Start() bool {
	if r.turning {
		return false
	}
	r.turning = true
	r.elapsed = 0
	return true
}

func (r *Rotatable) Turning() bool { return r.turning }

// Advance moves the turn forward by dt seconds and returns the yaw to render.
func (r *Rotatable) Advance(dt float32) float32 {
	if !r.turning {
		return r.Quarter * math.Pi * 0.5
	}
	r.elapsed += dt
	fraction := float32(1)
	if r.Duration > 0 {
		fraction = min(r.elapsed/r.Duration, 1)
	}
	if fraction < 1 {
		return core.QuarterTurnAngle(r.Quarter, fraction, r.Steps)
	}
	r.Quarter = float32(math.Mod(float64(r.Quarter+1), 4))
	r.turning = false
	return r.Quarter * math.Pi * 0.5
}

// SceneMesh is the mesh every Renderable part is drawn with.
type SceneMesh struct {
	Mesh AssetId
}

// SceneModule spawns the demo: a rimmed platform that can rotate, a block
// walked around with WASD that the camera can follow, and a sun.
type SceneModule struct {
	Follow bool
}

func (m SceneModule) Install(app *App, cmd *Commands) {
	if assets, ok := Resource[AssetServer](app); ok {
		cmd.AddResources(&SceneMesh{Mesh: assets.LoadMesh(core.CubeMesh())})
	}

	grey := mgl32.Vec4{0.5, 0.5, 0.5, 1}
	platform := NewTransform(mgl32.Vec3{})
	platform.Scale = mgl32.Vec3{90, 90, 90}
	cmd.AddEntity(
		platform,
		NewRotatable(),
		Renderable{Color: grey, Parts: []mgl32.Mat4{
			box(mgl32.Vec3{0, -0.01, 0}, mgl32.Vec3{1, 0.02, 1}),
			box(mgl32.Vec3{0, 0.075, 0.5}, mgl32.Vec3{1.05, 0.15, 0.05}),
			box(mgl32.Vec3{0, 0.075, -0.5}, mgl32.Vec3{1.05, 0.15, 0.05}),
			box(mgl32.Vec3{0.5, 0.075, 0}, mgl32.Vec3{0.05, 0.15, 1.05}),
			box(mgl32.Vec3{-0.5, 0.075, 0}, mgl32.Vec3{0.05, 0.15, 1.05}),
		}},
	)

	block := NewTransform(mgl32.Vec3{0, 8, 0})
	block.Scale = mgl32.Vec3{12, 12, 12}
	components := []any{block, NewPlayer(block.Position), Renderable{Color: mgl32.Vec4{0.1, 0.5, 0.1, 1}}}
	if m.Follow {
		components = append(components, CameraTarget{})
	}
	cmd.AddEntity(components...)

	sun := NewTransform(mgl32.Vec3{})
	sun.Rotation = DefaultSunRotation()
	cmd.AddEntity(sun, DirectionalLight{Color: [3]float32{1, 1, 1}, Illuminance: 4000})

	app.UseSystem(System(rotateSystem).InStage(Update))
	app.UseSystem(System(playerMovementSystem).InStage(Update))
}

func rotateSystem(input *Input, t *Time, cmd *Commands) {
	dt := t.Seconds()
	MakeQuery2[Rotatable, Transform](cmd).Map(func(_ EntityId, r *Rotatable, tr *Transform) bool {
		if input.JustPressed[KeyR] {
			r.Start()
		}
		tr.Rotation = mgl32.QuatRotate(r.Advance(dt), mgl32.Vec3{0, 1, 0})
		return true
	})
}
