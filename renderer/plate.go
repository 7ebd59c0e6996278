package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/chladni/camera"
	"github.com/pthm-cable/chladni/systems"
)

// SandColor is the fill used for sand grains.
var SandColor = rl.Color{R: 139, G: 69, B: 19, A: 255}

// PlateRenderer draws the intensity field and the sand on top of it.
type PlateRenderer struct {
	texture rl.Texture2D
	size    int
	pixels  []color.RGBA
	grid    *systems.Grid
}

// NewPlateRenderer allocates a texture for grids of the given size.
func NewPlateRenderer(gridSize int) *PlateRenderer {
	r := &PlateRenderer{}
	r.allocate(gridSize)
	return r
}

func (r *PlateRenderer) allocate(size int) {
	if r.size != 0 {
		rl.UnloadTexture(r.texture)
	}
	img := rl.GenImageColor(size, size, rl.White)
	r.texture = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	r.size = size
	r.pixels = make([]color.RGBA, size*size)
}

// Update uploads g to the texture when it differs from the last grid drawn.
func (r *PlateRenderer) Update(g *systems.Grid) {
	if g == nil || g == r.grid {
		return
	}
	if g.Size != r.size {
		r.allocate(g.Size)
	}
	r.grid = g

	// Antinodes render dark, nodal lines stay white.
	n := g.Size
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			gray := uint8((1 - g.At(i, j)) * 255)
			r.pixels[j*n+i] = color.RGBA{R: gray, G: gray, B: gray, A: 255}
		}
	}
	rl.UpdateTexture(r.texture, r.pixels)
}

// Draw renders the part of the plate the camera shows into bounds.
func (r *PlateRenderer) Draw(bounds rl.Rectangle, cam *camera.Camera, showBackground bool, particles []systems.Particle) {
	rl.DrawRectangleRec(bounds, rl.White)
	if showBackground && r.grid != nil {
		minX, minY, side := cam.Window()
		n := float64(r.size)
		rl.DrawTexturePro(
			r.texture,
			rl.Rectangle{X: float32(minX * n), Y: float32(minY * n), Width: float32(side * n), Height: float32(side * n)},
			bounds,
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
	}

	radius := float32(max(1, cam.Zoom/2))
	for _, p := range particles {
		u, v, ok := cam.PlateToView(p.X, p.Y)
		if !ok {
			continue
		}
		pos := rl.Vector2{
			X: bounds.X + float32(u)*bounds.Width,
			Y: bounds.Y + float32(v)*bounds.Height,
		}
		rl.DrawCircleV(pos, radius, SandColor)
	}
	rl.DrawRectangleLinesEx(bounds, 1, rl.DarkGray)
}

// Unload releases the GPU texture.
func (r *PlateRenderer) Unload() {
	if r.size != 0 {
		rl.UnloadTexture(r.texture)
		r.size = 0
	}
}
