package turn

// ActionWindow buffers declared actions until a resolution pass drains it.
// Declaration order is preserved as-is; resolution order is computed
// separately by the manager.
type ActionWindow struct {
	pending []PlannedAction
}

// Declare appends an action in arrival order.
func (w *ActionWindow) Declare(a PlannedAction) {
	w.pending = append(w.pending, a)
}

// Drain returns the buffered actions and clears the window. It is the only
// way to consume the contents.
func (w *ActionWindow) Drain() []PlannedAction {
	out := w.pending
	w.pending = nil
	return out
}

// Size returns the number of pending actions without consuming them.
func (w *ActionWindow) Size() int {
	return len(w.pending)
}
