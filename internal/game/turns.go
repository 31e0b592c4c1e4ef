// internal/game/turns.go
package game

// TurnOrder is an ordered sequence of seat identities plus a rotation
// direction. The sequence, not the player registry, defines rotation and
// is mutated in lock-step with seat addition and removal. Join order is
// preserved; bots append at the end.
type TurnOrder struct {
	seats     []string
	direction int // +1 or -1
}

// NewTurnOrder returns an empty order rotating forward.
func NewTurnOrder() *TurnOrder {
	return &TurnOrder{direction: 1}
}

// Len returns the number of seats in the order.
func (t *TurnOrder) Len() int { return len(t.seats) }

// Direction returns the current rotation direction (+1 or -1).
func (t *TurnOrder) Direction() int { return t.direction }

// Reverse flips the rotation direction.
func (t *TurnOrder) Reverse() { t.direction = -t.direction }

// ResetDirection restores forward rotation (used on restart).
func (t *TurnOrder) ResetDirection() { t.direction = 1 }

// Seats returns the seat ids in join order. The returned slice is the
// internal one; callers must not mutate it.
func (t *TurnOrder) Seats() []string { return t.seats }

// First returns the seat that joined first, or "" when empty.
func (t *TurnOrder) First() string {
	if len(t.seats) == 0 {
		return ""
	}
	return t.seats[0]
}

// Append adds a seat at the end of the order.
func (t *TurnOrder) Append(seatID string) {
	t.seats = append(t.seats, seatID)
}

// Remove deletes the matching seat. Removal shifts the index of every
// later entry, so pending "next seat" references must be recomputed by
// callers, never cached across a removal.
func (t *TurnOrder) Remove(seatID string) {
	for i, id := range t.seats {
		if id == seatID {
			t.seats = append(t.seats[:i], t.seats[i+1:]...)
			return
		}
	}
}

// Contains reports whether the seat is part of the order.
func (t *TurnOrder) Contains(seatID string) bool {
	return t.index(seatID) != -1
}

// Replace rewrites a seat identity in place, preserving its position.
func (t *TurnOrder) Replace(oldID, newID string) {
	for i, id := range t.seats {
		if id == oldID {
			t.seats[i] = newID
			return
		}
	}
}

// index returns the position of the seat, or -1 when absent.
func (t *TurnOrder) index(seatID string) int {
	for i, id := range t.seats {
		if id == seatID {
			return i
		}
	}
	return -1
}

// Next computes the seat following current in the configured direction,
// stepping twice when skip is set. A current seat no longer in the order
// (removed mid-resolution) is treated as position 0. The raw
// offset resolves with floor modulo, so backward rotation wraps to the
// last seat. Returns "" when the order is empty.
func (t *TurnOrder) Next(current string, skip bool) string {
	n := len(t.seats)
	if n == 0 {
		return ""
	}

	idx := t.index(current)
	if idx == -1 {
		idx = 0
	}

	next := idx + t.direction
	if skip {
		next += t.direction
	}
	next = ((next % n) + n) % n

	return t.seats[next]
}
