package loop

// RunState gates simulation work. The zero value is paused; use
// NewRunState for the running default.
type RunState struct {
	animating bool
}

func NewRunState() RunState {
	return RunState{animating: true}
}

func (r *RunState) Toggle() bool {
	r.animating = !r.animating
	return r.animating
}

func (r RunState) Animating() bool { return r.animating }

func (r RunState) String() string {
	if r.animating {
		return "running"
	}
	return "paused"
}
