package event

// PointerKind discriminates pointer events.
type PointerKind uint8

const (
	// PointerDown is a press.
	PointerDown PointerKind = iota

	// PointerUp is a release.
	PointerUp

	// PointerMove is a movement without a press.
	PointerMove
)

// Pointer is a window-level pointer event in viewport coordinates.
type Pointer struct {
	X    int
	Y    int
	Kind PointerKind
}
