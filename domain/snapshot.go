package domain

import (
	"strconv"
	"strings"
)

// SnapshotPayload serializes the public table state:
//
//	<state>:<round> <dealer>:<sb>:<bb>:<cur> cc:<c1:c2..> s<seat>:<client>:<*|->:<stake>.. p<idx>:<amount>..
func (t *Table) SnapshotPayload() string {
	var b strings.Builder

	b.WriteString(strconv.Itoa(int(t.State)))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(int(t.Round)))
	b.WriteByte(' ')

	for i, v := range []int{t.Dealer, t.SB, t.BB, t.Current} {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(strconv.Itoa(v))
	}

	b.WriteString(" cc:")
	b.WriteString(t.Community.Join(":"))

	for _, s := range t.Seats {
		b.WriteString(" s")
		b.WriteString(strconv.Itoa(s.SeatNo))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(s.Player.ClientID))
		if s.InRound {
			b.WriteString(":*:")
		} else {
			b.WriteString(":-:")
		}
		b.WriteString(strconv.Itoa(s.Player.Stake()))
	}

	for i, p := range t.Pots {
		b.WriteString(" p")
		b.WriteString(strconv.Itoa(i))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(p.Amount))
	}

	return b.String()
}
