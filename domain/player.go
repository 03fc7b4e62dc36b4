package domain

import "github.com/lazharichir/nutsrv/cards"

// Player is one client's persistent state within a game
type Player struct {
	ClientID int

	stake        int
	holeCards    [2]cards.Card
	action       Action
	hasAction    bool
	disconnected bool
}

// NewPlayer creates a new player with the given client id and stake
func NewPlayer(clientID int, stake int) *Player {
	return &Player{
		ClientID: clientID,
		stake:    stake,
	}
}

func (p *Player) Stake() int {
	return p.stake
}

func (p *Player) HoleCards() [2]cards.Card {
	return p.holeCards
}

func (p *Player) SetHoleCards(first, second cards.Card) {
	p.holeCards = [2]cards.Card{first, second}
}

// SetAction records the player's next move. A reset clears any recorded move.
func (p *Player) SetAction(kind ActionKind, amount int) {
	if kind == ActionReset {
		p.ClearAction()
		return
	}
	p.action = Action{Kind: kind, Amount: amount}
	p.hasAction = true
}

func (p *Player) ClearAction() {
	p.action = Action{}
	p.hasAction = false
}

// PendingAction returns the recorded move, if any
func (p *Player) PendingAction() (Action, bool) {
	return p.action, p.hasAction
}

func (p *Player) Disconnected() bool {
	return p.disconnected
}

func (p *Player) MarkDisconnected() {
	p.disconnected = true
}

// TakeChips removes up to amount from the stake and returns what was removed
func (p *Player) TakeChips(amount int) int {
	if amount <= 0 {
		return 0
	}
	if amount > p.stake {
		amount = p.stake
	}
	p.stake -= amount
	return amount
}

func (p *Player) AddChips(amount int) {
	if amount > 0 {
		p.stake += amount
	}
}
