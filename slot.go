package hxtag

import "fmt"

// Slot names one of the fixed sub-parts of a rendered tag.
//
// Every slot has exactly one built-in default implementation (see
// StyledRoot, StyledText, StyledAction and StyledActionIcon) which can be
// swapped per render through Overrides.
type Slot int

const (
	SlotRoot Slot = iota
	SlotText
	SlotAction
	SlotActionIcon
)

// Slots lists every slot in render order.
func Slots() []Slot {
	return []Slot{SlotRoot, SlotText, SlotAction, SlotActionIcon}
}

func (s Slot) String() string {
	switch s {
	case SlotRoot:
		return "Root"
	case SlotText:
		return "Text"
	case SlotAction:
		return "Action"
	case SlotActionIcon:
		return "ActionIcon"
	default:
		return fmt.Sprintf("Slot(%d)", int(s))
	}
}

// ParseSlot is the inverse of Slot.String.
func ParseSlot(name string) (Slot, error) {
	for _, s := range Slots() {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSlot, name)
}

// defaultPart returns the built-in implementation for s.
func defaultPart(s Slot) Part {
	switch s {
	case SlotRoot:
		return StyledRoot
	case SlotText:
		return StyledText
	case SlotAction:
		return StyledAction
	case SlotActionIcon:
		return StyledActionIcon
	default:
		return nil
	}
}
