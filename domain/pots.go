package domain

// Pot holds collected bets and the players who may win them
type Pot struct {
	Amount  int
	Final   bool
	Players []*Player
}

// IsEligible reports whether p contributed to the pot while still in the hand
func (pot *Pot) IsEligible(p *Player) bool {
	for _, e := range pot.Players {
		if e == p {
			return true
		}
	}
	return false
}

func (pot *Pot) addPlayer(p *Player) {
	if !pot.IsEligible(p) {
		pot.Players = append(pot.Players, p)
	}
}

// currentPot returns the pot accepting chips, opening a new one if the last is final
func (t *Table) currentPot() *Pot {
	if len(t.Pots) == 0 || t.Pots[len(t.Pots)-1].Final {
		t.Pots = append(t.Pots, &Pot{})
	}
	return t.Pots[len(t.Pots)-1]
}

// collectBets moves every street bet into the pots, cutting a side pot
// each time in-round players have put in different amounts.
func (t *Table) collectBets() {
	for {
		smallest := 0
		for _, s := range t.Seats {
			if !s.InRound || s.Bet == 0 {
				continue
			}
			if smallest == 0 || s.Bet < smallest {
				smallest = s.Bet
			}
		}

		// only folded bets are left, they go to the last pot as dead money
		if smallest == 0 {
			var pot *Pot
			for _, s := range t.Seats {
				if s.Bet == 0 {
					continue
				}
				if pot == nil {
					if len(t.Pots) == 0 {
						t.Pots = append(t.Pots, &Pot{})
					}
					pot = t.Pots[len(t.Pots)-1]
				}
				pot.Amount += s.Bet
				s.Bet = 0
			}
			return
		}

		pot := t.currentPot()

		allEqual := true
		for _, s := range t.Seats {
			if s.InRound && s.Bet > 0 && s.Bet != smallest {
				allEqual = false
				break
			}
		}

		if allEqual {
			for _, s := range t.Seats {
				if s.Bet == 0 {
					continue
				}
				pot.Amount += s.Bet
				s.Bet = 0

				if !s.InRound {
					continue
				}
				if s.Player.Stake() == 0 {
					pot.Final = true
				}
				pot.addPlayer(s.Player)
			}
			return
		}

		// side pot: everyone pays in up to the smallest in-round bet
		pot.Final = true
		for _, s := range t.Seats {
			if s.Bet == 0 {
				continue
			}
			take := min(s.Bet, smallest)
			pot.Amount += take
			s.Bet -= take
			if s.InRound {
				pot.addPlayer(s.Player)
			}
		}
	}
}
