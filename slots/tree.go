package slots

import "slotboard/models"

// findSlot walks the roster tree depth-first and returns a pointer into the
// tree for the slot with the given id, or nil.
func findSlot(g *models.SlotGroup, slotID string) *models.Slot {
	for i := range g.Slots {
		if g.Slots[i].ID == slotID {
			return &g.Slots[i]
		}
	}
	for i := range g.Groups {
		if s := findSlot(&g.Groups[i], slotID); s != nil {
			return s
		}
	}
	return nil
}

// flatten returns every leaf slot of the tree in document order.
func flatten(g *models.SlotGroup) []models.Slot {
	out := make([]models.Slot, 0, len(g.Slots))
	out = append(out, g.Slots...)
	for i := range g.Groups {
		out = append(out, flatten(&g.Groups[i])...)
	}
	return out
}

// occupants returns the occupant user id of every occupied slot, with
// duplicates (a user may hold several slots).
func occupants(g *models.SlotGroup) []string {
	var out []string
	for i := range g.Slots {
		if g.Slots[i].OccupantUserID != "" {
			out = append(out, g.Slots[i].OccupantUserID)
		}
	}
	for i := range g.Groups {
		out = append(out, occupants(&g.Groups[i])...)
	}
	return out
}

// removeUser clears the user from every slot it occupies and returns the ids
// of the cleared slots.
func removeUser(g *models.SlotGroup, userID string) []string {
	var cleared []string
	for i := range g.Slots {
		if g.Slots[i].OccupantUserID == userID {
			g.Slots[i].OccupantUserID = ""
			cleared = append(cleared, g.Slots[i].ID)
		}
	}
	for i := range g.Groups {
		cleared = append(cleared, removeUser(&g.Groups[i], userID)...)
	}
	return cleared
}
