package domain

// Key is a navigation key understood by the search surface.
type Key int

// Navigation keys.
const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyEnter
	KeyEscape
)

// String returns the string representation of the key.
func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyEnter:
		return "enter"
	case KeyEscape:
		return "escape"
	default:
		return "none"
	}
}

// ScrollPosition samples a scrollable result list.
// All values share one unit (pixels, terminal rows, ...).
type ScrollPosition struct {
	// Top is the scroll offset from the top of the content.
	Top int

	// Height is the total content height.
	Height int

	// Viewport is the visible height.
	Viewport int
}

// DistanceToBottom returns how far the viewport's bottom edge is from the end
// of the content.
func (p ScrollPosition) DistanceToBottom() int {
	d := p.Height - (p.Top + p.Viewport)
	if d < 0 {
		return 0
	}
	return d
}
