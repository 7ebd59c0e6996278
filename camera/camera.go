// Package camera provides a zoomable view into the unit plate.
package camera

// Camera controls which part of the plate [0,1]² fills the viewport.
// The view never leaves the plate.
type Camera struct {
	// X, Y is the view center in plate coordinates.
	X, Y float64

	// Zoom level (1.0 shows the whole plate)
	Zoom float64

	MinZoom, MaxZoom float64
}

// New returns a camera showing the whole plate.
func New(maxZoom float64) *Camera {
	if maxZoom < 1 {
		maxZoom = 1
	}
	return &Camera{X: 0.5, Y: 0.5, Zoom: 1, MinZoom: 1, MaxZoom: maxZoom}
}

// Span returns the side of the visible window in plate units.
func (c *Camera) Span() float64 {
	return 1 / c.Zoom
}

// Window returns the visible square as its top-left corner and side.
func (c *Camera) Window() (minX, minY, side float64) {
	side = c.Span()
	return c.X - side/2, c.Y - side/2, side
}

// PlateToView maps plate coordinates to viewport fractions in [0,1].
// visible is false when the point lies outside the window.
func (c *Camera) PlateToView(px, py float64) (u, v float64, visible bool) {
	minX, minY, side := c.Window()
	u = (px - minX) / side
	v = (py - minY) / side
	return u, v, u >= 0 && u <= 1 && v >= 0 && v <= 1
}

// ViewToPlate maps viewport fractions to plate coordinates.
func (c *Camera) ViewToPlate(u, v float64) (px, py float64) {
	minX, minY, side := c.Window()
	return minX + u*side, minY + v*side
}

// Pan moves the view by a delta given in viewport fractions.
func (c *Camera) Pan(du, dv float64) {
	side := c.Span()
	c.X -= du * side
	c.Y -= dv * side
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCenter()
}

// ZoomAt multiplies the zoom by factor keeping the plate point under the
// viewport fraction (u, v) fixed.
func (c *Camera) ZoomAt(factor, u, v float64) {
	px, py := c.ViewToPlate(u, v)
	c.Zoom = clamp(c.Zoom*factor, c.MinZoom, c.MaxZoom)
	side := c.Span()
	c.X = px - (u-0.5)*side
	c.Y = py - (v-0.5)*side
	c.clampCenter()
}

// Reset returns the camera to the whole-plate view.
func (c *Camera) Reset() {
	c.X, c.Y, c.Zoom = 0.5, 0.5, 1
}

// Zoomed reports whether the view shows less than the whole plate.
func (c *Camera) Zoomed() bool {
	return c.Zoom > 1
}

func (c *Camera) clampCenter() {
	half := c.Span() / 2
	c.X = clamp(c.X, half, 1-half)
	c.Y = clamp(c.Y, half, 1-half)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
