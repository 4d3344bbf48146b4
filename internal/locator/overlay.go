package locator

import "fmt"

// Visibility is the state of the suggestion overlay.
type Visibility int

const (
	Hidden Visibility = iota
	Shown
)

func (v Visibility) String() string {
	if v == Shown {
		return "shown"
	}
	return "hidden"
}

// MarshalText encodes the visibility as "shown" or "hidden".
func (v Visibility) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Target is the region that received a pointer event.
type Target int

const (
	TargetInput Target = iota
	TargetOverlay
	TargetOutside
)

// ParseTarget parses "input", "overlay" or "outside".
func ParseTarget(s string) (Target, error) {
	switch s {
	case "input":
		return TargetInput, nil
	case "overlay":
		return TargetOverlay, nil
	case "outside":
		return TargetOutside, nil
	default:
		return 0, fmt.Errorf("unknown pointer target %q", s)
	}
}

// Overlay is the two-state machine behind the suggestion list.
// It is not safe for concurrent use; Field serialises access.
//
// Invariant: the state is Shown only while the cached suggestion count is non-zero.
type Overlay struct {
	state   Visibility
	count   int
	focused bool
}

// NewOverlay returns a hidden overlay with no suggestions and no focus.
func NewOverlay() *Overlay {
	return &Overlay{state: Hidden}
}

// State returns the current visibility.
func (o *Overlay) State() Visibility { return o.state }

// Focused reports whether the input currently has focus.
func (o *Overlay) Focused() bool { return o.focused }

// SuggestionsChanged records a new suggestion count. An empty list hides the overlay;
// a list that was just populated shows it; a replaced list shows it only while focused.
func (o *Overlay) SuggestionsChanged(n int) Visibility {
	prev := o.count
	o.count = n

	switch {
	case n == 0:
		o.state = Hidden
	case prev == 0 || o.focused:
		o.state = Shown
	}

	return o.state
}

// Focus shows cached suggestions when the input regains focus.
func (o *Overlay) Focus() Visibility {
	o.focused = true
	if o.count > 0 {
		o.state = Shown
	}

	return o.state
}

// Blur hides the overlay when focus leaves both the input and the overlay.
func (o *Overlay) Blur() Visibility {
	o.focused = false
	o.state = Hidden

	return o.state
}

// PointerDown handles a pointer event. The overlay's own region never counts as
// outside, so a click on a suggestion cannot hide the list before it is selected.
func (o *Overlay) PointerDown(target Target) Visibility {
	switch target {
	case TargetInput:
		return o.Focus()
	case TargetOutside:
		return o.Blur()
	default:
		return o.state
	}
}

// Select hides the overlay after a suggestion was chosen.
func (o *Overlay) Select() Visibility {
	o.state = Hidden
	return o.state
}
