package models

// Clone returns a deep copy of the match. Stores hand out copies so callers
// can never mutate shared state outside the engine's locking.
func (m *Match) Clone() *Match {
	c := *m
	c.Structure = m.Structure.clone()
	return &c
}

func (g SlotGroup) clone() SlotGroup {
	c := g
	if g.Groups != nil {
		c.Groups = make([]SlotGroup, len(g.Groups))
		for i := range g.Groups {
			c.Groups[i] = g.Groups[i].clone()
		}
	}
	if g.Slots != nil {
		c.Slots = make([]Slot, len(g.Slots))
		copy(c.Slots, g.Slots)
	}
	return c
}
