package dnd

import "strings"

const slotPrefix = "slot:"

// SlotID is the stable drop-target ID of a list's trailing slot.
func SlotID(listID string) string {
	return slotPrefix + listID
}

// ParseSlotID extracts the list ID from a slot ID.
func ParseSlotID(id string) (string, bool) {
	if !strings.HasPrefix(id, slotPrefix) {
		return "", false
	}
	listID := strings.TrimPrefix(id, slotPrefix)
	return listID, listID != ""
}

// DropSlot is the sensing region after a list's last card. Dropping on it
// appends to the list, and it is the only target an empty list has. Hovered
// affects rendering only.
type DropSlot struct {
	ListID  string
	Count   int // cards in the list when the slot was rendered
	Hovered bool
}

// NewDropSlot builds the slot for a list with count cards, flagged hovered
// when the active session is over it.
func NewDropSlot(listID string, count int, s *Session) DropSlot {
	return DropSlot{ListID: listID, Count: count, Hovered: s.IsOverSlot(listID)}
}

func (s DropSlot) ID() string {
	return SlotID(s.ListID)
}

// Target is the hover target a gesture reports while over the slot.
func (s DropSlot) Target() Target {
	return Target{ContainerID: s.ListID, Index: s.Count, Slot: true}
}
