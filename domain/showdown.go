package domain

import (
	"fmt"
	"sort"

	"github.com/lazharichir/nutsrv/domain/events"
	"github.com/lazharichir/nutsrv/domain/hands"
)

// stateAllFolded pays every pot to the only player left in the hand
func (t *Table) stateAllFolded() error {
	t.collectBets()

	winner := -1
	for i, s := range t.Seats {
		if s.InRound {
			winner = i
			break
		}
	}
	if winner == -1 {
		return fmt.Errorf("no player left in round")
	}

	p := t.Seats[winner].Player
	won := 0
	for _, pot := range t.Pots {
		won += pot.Amount
		pot.Amount = 0
	}
	p.AddChips(won)
	t.Pots = nil

	t.chat(fmt.Sprintf("Player %d wins %d", p.ClientID, won))

	t.emitEvent(events.HandEnded{
		GameID:  t.GameID,
		TableID: t.ID,
		HandID:  t.HandID,
		Payouts: map[int]int{p.ClientID: won},
		At:      t.clock(),
	})

	t.State = StateEndRound
	t.sendSnapshot()
	return nil
}

func (t *Table) stateShowdown() error {
	t.chat("Showdown")

	// the last aggressor shows first
	strengths := make([]hands.Strength, 0, len(t.Seats))
	pos := t.LastBet
	if pos < 0 || pos >= len(t.Seats) || !t.Seats[pos].InRound {
		pos = t.nextInRound(pos)
	}
	for i := 0; i < t.countInRound() && pos != -1; i++ {
		p := t.Seats[pos].Player
		s, err := t.evaluator.Evaluate(p.ClientID, p.HoleCards(), t.Community)
		if err != nil {
			return fmt.Errorf("evaluating hand of player %d: %w", p.ClientID, err)
		}
		strengths = append(strengths, s)

		hole := p.HoleCards()
		t.chat(fmt.Sprintf("Player [%d] has: [%s %s] %s", p.ClientID, hole[0], hole[1], s.Description))

		pos = t.nextInRound(pos)
	}

	groups := t.evaluator.RankTieGroups(strengths)
	payouts := make(map[int]int)

	for i, pot := range t.Pots {
		if pot.Amount == 0 {
			continue
		}

		winners := t.potWinners(pot, groups)
		if len(winners) == 0 {
			t.logger.WithField("pot", i).Warn("pot has no eligible winner")
			continue
		}

		share := pot.Amount / len(winners)
		remainder := pot.Amount % len(winners)
		for j, seatIdx := range winners {
			won := share
			if j < remainder {
				won++
			}
			if won == 0 {
				continue
			}
			p := t.Seats[seatIdx].Player
			p.AddChips(won)
			payouts[p.ClientID] += won
			t.chat(fmt.Sprintf("Player [%d] wins pot #%d with %d", p.ClientID, i+1, won))
		}
		pot.Amount = 0
	}

	t.Pots = nil

	t.emitEvent(events.HandEnded{
		GameID:   t.GameID,
		TableID:  t.ID,
		HandID:   t.HandID,
		Showdown: true,
		Payouts:  payouts,
		At:       t.clock(),
	})

	t.State = StateEndRound
	t.sendSnapshot()
	return nil
}

// potWinners returns the seat indices splitting the pot, ordered from the
// seat left of the dealer so odd chips go there first. When nobody in any
// tie group is eligible the best group takes the pot.
func (t *Table) potWinners(pot *Pot, groups [][]int) []int {
	var winners []int
	for _, group := range groups {
		for _, id := range group {
			idx := t.SeatOf(id)
			if idx == -1 {
				continue
			}
			if pot.IsEligible(t.Seats[idx].Player) {
				winners = append(winners, idx)
			}
		}
		if len(winners) > 0 {
			break
		}
	}

	if len(winners) == 0 && len(groups) > 0 {
		for _, id := range groups[0] {
			if idx := t.SeatOf(id); idx != -1 {
				winners = append(winners, idx)
			}
		}
	}

	n := len(t.Seats)
	sort.Slice(winners, func(a, b int) bool {
		return (winners[a]-t.Dealer-1+n)%n < (winners[b]-t.Dealer-1+n)%n
	})
	return winners
}

// stateEndRound drops broke players and moves the dealer button on
func (t *Table) stateEndRound() error {
	n := len(t.Seats)
	if n == 0 {
		return fmt.Errorf("no seats left")
	}

	// next dealer is the first surviving seat after the old one
	var dealer *Seat
	for i := 1; i <= n; i++ {
		s := t.Seats[(t.Dealer+i)%n]
		if s.Player.Stake() > 0 {
			dealer = s
			break
		}
	}

	survivors := make([]*Seat, 0, n)
	for _, s := range t.Seats {
		if s.Player.Stake() > 0 {
			survivors = append(survivors, s)
			continue
		}

		t.logger.WithField("player", s.Player.ClientID).Info("player broke")
		t.chatTo(s.Player, "You broke!")
		t.emitEvent(events.PlayerBroke{
			GameID:   t.GameID,
			TableID:  t.ID,
			PlayerID: s.Player.ClientID,
			At:       t.clock(),
		})
	}
	t.Seats = survivors

	t.Dealer = 0
	for i, s := range t.Seats {
		if s == dealer {
			t.Dealer = i
			break
		}
	}
	t.Current = -1
	t.LastBet = -1

	if len(t.Seats) <= 1 {
		t.finished = true
		return nil
	}

	t.State = StateNewRound
	return nil
}
