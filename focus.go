package hxtag

// FocusClassifier decides whether a focus event should show a focus ring,
// i.e. whether it was caused by keyboard navigation rather than a pointer.
// Implementations must be free of side effects in IsFocusVisible.
type FocusClassifier interface {
	IsFocusVisible(e *Event) bool
}

// FocusClassifierFunc adapts a function to FocusClassifier.
type FocusClassifierFunc func(e *Event) bool

// IsFocusVisible calls f(e).
func (f FocusClassifierFunc) IsFocusVisible(e *Event) bool {
	return f(e)
}

// ModalityObserver is implemented by classifiers that track the input
// modality from the event stream. Tag.Dispatch feeds every event to it
// before routing.
type ModalityObserver interface {
	Observe(e *Event)
}

// ModalityTracker is the default FocusClassifier. It remembers whether the
// last input came from the keyboard or from a pointer.
//
// A keydown without meta, alt or ctrl switches to keyboard modality; a
// pointerdown or click switches back to pointer modality. A focus event is
// classified as keyboard-originated when the substrate flagged it
// FromKeyboard or the current modality is keyboard.
type ModalityTracker struct {
	keyboard bool
}

// Observe updates the tracked modality.
func (m *ModalityTracker) Observe(e *Event) {
	switch e.Type {
	case EventKeyDown:
		if e.Meta || e.Alt || e.Ctrl {
			return
		}
		m.keyboard = true
	case EventPointerDown, EventClick:
		m.keyboard = false
	}
}

// IsFocusVisible implements FocusClassifier.
func (m *ModalityTracker) IsFocusVisible(e *Event) bool {
	return e.FromKeyboard || m.keyboard
}

// focusVisibility is the per-instance focus ring flag. It only changes
// through focus and blur.
type focusVisibility struct {
	visible bool
}

func (f *focusVisibility) focus(c FocusClassifier, e *Event) {
	if c.IsFocusVisible(e) {
		f.visible = true
	}
}

func (f *focusVisibility) blur() {
	if f.visible {
		f.visible = false
	}
}
