package camera

// EventKind identifies a pointer input
type EventKind int

const (
	Wheel EventKind = iota
	Press
	Move
	Release
)

func (k EventKind) String() string {
	switch k {
	case Wheel:
		return "wheel"
	case Press:
		return "press"
	case Move:
		return "move"
	case Release:
		return "release"
	}
	return "unknown"
}

// Event is a pointer input translated from the host toolkit.
// Rotation is only meaningful for Wheel: negative rolls away from the user.
type Event struct {
	Kind     EventKind
	X, Y     float64
	Rotation float64
}

// State is the view plus the transient drag reference
type State struct {
	View

	Dragging     bool
	LastX, LastY float64
}

// Apply returns the state after ev and whether the frame must be redrawn
func (s State) Apply(ev Event, zoomFactor float64) (State, bool) {
	switch ev.Kind {
	case Wheel:
		if ev.Rotation == 0 {
			return s, false
		}
		anchor := s.ScreenToWorld(ev.X, ev.Y)
		if ev.Rotation < 0 {
			s.Scale *= zoomFactor
		} else {
			s.Scale /= zoomFactor
		}
		s.OffsetX = ev.X - anchor.X()*s.Scale
		s.OffsetY = ev.Y - anchor.Y()*s.Scale
		return s, true

	case Press:
		s.Dragging = true
		s.LastX, s.LastY = ev.X, ev.Y
		return s, false

	case Move:
		if !s.Dragging {
			return s, false
		}
		s.OffsetX += ev.X - s.LastX
		s.OffsetY += ev.Y - s.LastY
		s.LastX, s.LastY = ev.X, ev.Y
		return s, true

	case Release:
		s.Dragging = false
		return s, false
	}
	return s, false
}
