package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownAction = errors.New("unknown action")

type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionReset
	ActionCheck
	ActionFold
	ActionCall
	ActionBet
	ActionRaise
	ActionAllin
	ActionShow
)

var actionNames = map[ActionKind]string{
	ActionNone:  "none",
	ActionReset: "reset",
	ActionCheck: "check",
	ActionFold:  "fold",
	ActionCall:  "call",
	ActionBet:   "bet",
	ActionRaise: "raise",
	ActionAllin: "allin",
	ActionShow:  "show",
}

func (k ActionKind) String() string {
	if s, ok := actionNames[k]; ok {
		return s
	}
	return fmt.Sprintf("action(%d)", int(k))
}

// ParseAction maps a protocol action name to its kind. "none" is internal and not accepted.
func ParseAction(name string) (ActionKind, error) {
	name = strings.ToLower(name)
	for k, s := range actionNames {
		if s == name && k != ActionNone {
			return k, nil
		}
	}
	return ActionNone, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// Action is a player's requested move; Amount is only meaningful for bet and raise
type Action struct {
	Kind   ActionKind
	Amount int
}
