package game

// Action is one of the discrete gameplay inputs the session consumes.
// Phase transitions (start, pause, resume, restart) are separate; they go
// through the session's phase machine, not the repeat tracker.
type Action int

const (
	ActionLeft Action = iota
	ActionRight
	ActionRotateCW
	ActionRotateCCW
	ActionSoftDrop
	ActionHardDrop
	ActionHold
)

// Actions returns every gameplay action.
func Actions() []Action {
	return []Action{
		ActionLeft, ActionRight,
		ActionRotateCW, ActionRotateCCW,
		ActionSoftDrop, ActionHardDrop, ActionHold,
	}
}

// InputState is the repeat-tracking state of one action's key.
type InputState int

const (
	// InputUp: key released, no timer running.
	InputUp InputState = iota
	// InputDown: key pressed; the action already fired once, the timer
	// runs toward the initial repeat delay.
	InputDown
	// InputHeld: initial delay passed; the action re-fires every repeat
	// delay while the key stays down.
	InputHeld
)

type actionDelays struct {
	initial float64
	repeat  float64
}

// repeatDelays lists the repeatable actions. Hard drop and hold are
// single-fire and have no entry: their keys stay in InputDown until
// released.
var repeatDelays = map[Action]actionDelays{
	ActionLeft:      {initial: 0.20, repeat: 0.10},
	ActionRight:     {initial: 0.20, repeat: 0.10},
	ActionRotateCW:  {initial: 0.25, repeat: 0.20},
	ActionRotateCCW: {initial: 0.25, repeat: 0.20},
	ActionSoftDrop:  {initial: 0.15, repeat: 0.05},
}

type controlState struct {
	state   InputState
	elapsed float64
}

// ControlStates tracks a per-action Down/Held/Up timer so held keys
// re-fire their action at a fixed cadence after an initial delay.
type ControlStates struct {
	states map[Action]*controlState
}

// NewControlStates returns a tracker with every action up.
func NewControlStates() *ControlStates {
	cs := &ControlStates{states: make(map[Action]*controlState, len(Actions()))}
	for _, a := range Actions() {
		cs.states[a] = &controlState{}
	}
	return cs
}

// Press records a key-down for the action. The immediate firing of the
// action is the caller's job; Press only starts the repeat timer.
func (cs *ControlStates) Press(a Action) {
	*cs.states[a] = controlState{state: InputDown}
}

// Release records a key-up for the action.
func (cs *ControlStates) Release(a Action) {
	*cs.states[a] = controlState{}
}

// Clear releases every action, e.g. when the game pauses.
func (cs *ControlStates) Clear() {
	for _, s := range cs.states {
		*s = controlState{}
	}
}

// State returns the action's current input state.
func (cs *ControlStates) State(a Action) InputState {
	return cs.states[a].state
}

// Advance adds elapsed seconds to every running timer and returns the
// actions whose repeat fired during this tick.
func (cs *ControlStates) Advance(dt float64) []Action {
	var fired []Action
	for _, a := range Actions() {
		delays, repeatable := repeatDelays[a]
		if !repeatable {
			continue
		}
		s := cs.states[a]
		switch s.state {
		case InputDown:
			s.elapsed += dt
			if s.elapsed >= delays.initial {
				*s = controlState{state: InputHeld}
			}
		case InputHeld:
			s.elapsed += dt
			if s.elapsed >= delays.repeat {
				*s = controlState{state: InputHeld}
				fired = append(fired, a)
			}
		}
	}
	return fired
}
