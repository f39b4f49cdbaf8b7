package orchestrator

import (
	"errors"
	"fmt"
	"slices"
)

var ErrInvalidTransition = errors.New("invalid orchestration transition")

type State int

const (
	StateIdle State = iota
	StateReasoning
	StateToolCall
	StateResponding
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReasoning:
		return "reasoning"
	case StateToolCall:
		return "tool_call"
	case StateResponding:
		return "responding"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var transitions = map[State][]State{
	StateIdle:       {StateReasoning},
	StateReasoning:  {StateToolCall, StateResponding},
	StateToolCall:   {StateReasoning},
	StateResponding: {StateDone},
}

type machine struct {
	state   State
	history []State
}

func (m *machine) to(next State) error {
	if !slices.Contains(transitions[m.state], next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.state, next)
	}
	m.state = next
	m.history = append(m.history, next)
	return nil
}

func newMachine() *machine {
	return &machine{
		state:   StateIdle,
		history: []State{StateIdle},
	}
}
