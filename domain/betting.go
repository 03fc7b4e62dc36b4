package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/lazharichir/nutsrv/domain/events"
)

// stateElectDealer is reserved for dealer election; seat 0 deals the first hand.
func (t *Table) stateElectDealer() error {
	t.State = StateNewRound
	return nil
}

func (t *Table) stateNewRound() error {
	t.HandID = uuid.NewString()

	t.Deck.Fill()
	t.Deck.Shuffle()
	t.Community = t.Community[:0]

	for _, s := range t.Seats {
		s.Bet = 0
		s.InRound = false
		s.Player.ClearAction()
	}

	t.Pots = []*Pot{{}}
	t.BetAmount = 0
	t.NoMoreAction = false
	t.Round = RoundPreflop

	players := make([]int, 0, len(t.Seats))
	for _, s := range t.Seats {
		players = append(players, s.Player.ClientID)
	}
	t.emitEvent(events.HandStarted{
		GameID:  t.GameID,
		TableID: t.ID,
		HandID:  t.HandID,
		Dealer:  t.Seats[t.Dealer].Player.ClientID,
		Players: players,
		At:      t.clock(),
	})

	t.chat("New round started, deck shuffled")

	t.State = StateBlinds
	return nil
}

func (t *Table) stateBlinds() error {
	headsUp := len(t.Seats) == 2
	if headsUp {
		t.BB = t.nextSeat(t.Dealer)
		t.SB = t.nextSeat(t.BB)
	} else {
		t.SB = t.nextSeat(t.Dealer)
		t.BB = t.nextSeat(t.SB)
	}

	sb := t.wager(t.SB, t.Blind/2)
	bb := t.wager(t.BB, t.Blind)
	t.BetAmount = t.Blind

	suffix := ""
	if headsUp {
		suffix = " HEADS-UP"
	}
	t.chat(fmt.Sprintf("[%d] is Dealer, [%d] is SB (%d), [%d] is BB (%d)%s",
		t.Seats[t.Dealer].Player.ClientID,
		t.Seats[t.SB].Player.ClientID, sb,
		t.Seats[t.BB].Player.ClientID, bb,
		suffix))

	t.Current = t.nextSeat(t.BB)
	t.LastBet = t.Current
	t.resetTurn()

	// two hole cards each, starting under the gun
	for i := 0; i < len(t.Seats); i++ {
		seat := t.Seats[(t.Current+i)%len(t.Seats)]
		first, err := t.Deck.Pop()
		if err != nil {
			return fmt.Errorf("dealing hole cards: %w", err)
		}
		second, err := t.Deck.Pop()
		if err != nil {
			return fmt.Errorf("dealing hole cards: %w", err)
		}
		seat.Player.SetHoleCards(first, second)
		seat.InRound = true
		t.chatTo(seat.Player, fmt.Sprintf("Your hole-cards: [%s %s]", first, second))
	}

	t.chatTo(t.Seats[t.Current].Player, "You're under the gun!")

	t.Round = RoundPreflop
	t.sendSnapshot()

	t.State = StateBetting
	return nil
}

// wager moves up to amount from the seat's player to its street bet
func (t *Table) wager(seatIdx int, amount int) int {
	seat := t.Seats[seatIdx]
	moved := seat.Player.TakeChips(amount)
	seat.Bet += moved
	return moved
}

// stateBetting resolves at most one action of the current seat
func (t *Table) stateBetting() error {
	if t.Current < 0 || t.Current >= len(t.Seats) {
		return fmt.Errorf("current seat %d out of range", t.Current)
	}

	seat := t.Seats[t.Current]
	p := seat.Player

	var action Action
	auto := false

	switch pending, ok := p.PendingAction(); {
	case t.NoMoreAction || p.Stake() == 0:
		action = Action{Kind: ActionNone}
	case ok:
		p.ClearAction()
		resolved, reason := t.validate(seat, pending)
		if reason != "" {
			t.chatTo(p, reason)
			return nil
		}
		action = resolved
	case p.Disconnected() || t.clock().Sub(t.turnStarted) > t.Timeout:
		auto = true
		if seat.Bet < t.BetAmount {
			action = Action{Kind: ActionFold}
		} else {
			action = Action{Kind: ActionCheck}
		}
	default:
		return nil
	}

	t.apply(seat, action, auto)
	return t.advance(seat, action)
}

// validate checks a requested action against the table and returns the action
// with the number of chips to move, or a reason for rejecting it.
func (t *Table) validate(seat *Seat, req Action) (Action, string) {
	switch req.Kind {
	case ActionFold:
		return Action{Kind: ActionFold}, ""

	case ActionCheck:
		if seat.Bet < t.BetAmount {
			return Action{}, "Err: You cannot check! Try call."
		}
		return Action{Kind: ActionCheck}, ""

	case ActionCall:
		if t.BetAmount == 0 || t.BetAmount == seat.Bet {
			return Action{}, "Err: You cannot call, nothing was bet! Try check."
		}
		return Action{Kind: ActionCall, Amount: t.BetAmount - seat.Bet}, ""

	case ActionBet:
		if t.BetAmount > 0 {
			return Action{}, "Err: You cannot bet, there was already a bet! Try raise."
		}
		if req.Amount <= t.BetAmount || req.Amount < t.Blind {
			return Action{}, "Err: You cannot bet this amount."
		}
		return Action{Kind: ActionBet, Amount: req.Amount - seat.Bet}, ""

	case ActionRaise:
		if t.BetAmount == 0 {
			return Action{}, "Err: You cannot raise, nothing was bet! Try bet."
		}
		if req.Amount <= t.BetAmount {
			return Action{}, "Err: You cannot raise this amount."
		}
		return Action{Kind: ActionRaise, Amount: req.Amount - seat.Bet}, ""

	case ActionAllin:
		return Action{Kind: ActionAllin, Amount: seat.Player.Stake()}, ""

	case ActionShow:
		return Action{}, "Err: You cannot show now."
	}

	return Action{}, fmt.Sprintf("Err: Unknown action %s.", req.Kind)
}

func (t *Table) apply(seat *Seat, action Action, auto bool) {
	p := seat.Player
	moved := 0

	switch action.Kind {
	case ActionNone:
		return

	case ActionFold:
		seat.InRound = false
		t.chat(fmt.Sprintf("Player %d folded.", p.ClientID))

	case ActionCheck:
		t.chat(fmt.Sprintf("Player %d checked.", p.ClientID))

	default:
		moved = t.wager(t.Current, action.Amount)
		if seat.Bet > t.BetAmount {
			t.BetAmount = seat.Bet
			t.LastBet = t.Current
		}
		switch action.Kind {
		case ActionCall:
			t.chat(fmt.Sprintf("Player %d called $%d.", p.ClientID, moved))
		case ActionAllin:
			t.chat(fmt.Sprintf("Player %d allin $%d.", p.ClientID, moved))
		default:
			t.chat(fmt.Sprintf("Player %d %s $%d.", p.ClientID, pastTense(action.Kind), moved))
		}
	}

	t.emitEvent(events.PlayerActed{
		GameID:   t.GameID,
		TableID:  t.ID,
		HandID:   t.HandID,
		PlayerID: p.ClientID,
		Action:   action.Kind.String(),
		Amount:   moved,
		Auto:     auto,
		At:       t.clock(),
	})
}

// advance hands the turn on, closing the street when it returns to the last aggressor
func (t *Table) advance(seat *Seat, action Action) error {
	if t.countInRound() == 1 {
		t.State = StateAllFolded
		t.sendSnapshot()
		return nil
	}

	next := t.nextInRound(t.Current)

	// the seat holding the marker folded: the marker moves on and the street continues
	if action.Kind == ActionFold && t.Current == t.LastBet {
		t.LastBet = next
		t.Current = next
		t.resetTurn()
		t.sendSnapshot()
		t.chatTo(t.Seats[t.Current].Player, "It's your turn!")
		return nil
	}

	if next != t.LastBet {
		t.Current = next
		t.resetTurn()
		t.sendSnapshot()
		t.chatTo(t.Seats[t.Current].Player, "It's your turn!")
		return nil
	}

	t.logger.WithField("round", t.Round.String()).Debug("betting round ended")

	if t.allButOneAllin() {
		t.NoMoreAction = true
	}

	t.collectBets()
	t.BetAmount = 0

	switch t.Round {
	case RoundPreflop:
		if err := t.dealCards(3); err != nil {
			return err
		}
		t.Round = RoundFlop
		t.chat(fmt.Sprintf("The flop: [%s]", t.Community.String()))
	case RoundFlop:
		if err := t.dealCards(1); err != nil {
			return err
		}
		t.Round = RoundTurn
		t.chat(fmt.Sprintf("The turn: [%s]", t.Community[3]))
	case RoundTurn:
		if err := t.dealCards(1); err != nil {
			return err
		}
		t.Round = RoundRiver
		t.chat(fmt.Sprintf("The river: [%s]", t.Community[4]))
	case RoundRiver:
		t.State = StateShowdown
		t.sendSnapshot()
		return nil
	}

	if len(t.Seats) == 2 {
		t.Current = t.nextInRound(t.nextInRound(t.Dealer))
	} else {
		t.Current = t.nextInRound(t.Dealer)
	}
	t.LastBet = t.Current
	t.resetTurn()
	t.sendSnapshot()
	t.chatTo(t.Seats[t.Current].Player, "It's your turn!")

	return nil
}

func pastTense(k ActionKind) string {
	switch k {
	case ActionBet:
		return "bet"
	case ActionRaise:
		return "raised"
	}
	return k.String()
}
