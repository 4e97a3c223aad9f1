package dnd

import "github.com/amterp/tack/internal/model"

// Target is a position a gesture can hover or drop on. An empty
// ContainerID means "outside any target".
type Target struct {
	ContainerID string
	Index       int
	Slot        bool
}

// Valid reports whether the target names a container.
func (t Target) Valid() bool {
	return t.ContainerID != ""
}

// Session tracks one gesture from start to end. At most one session is
// active at a time; callers hold it and drop it on End or Cancel.
type Session struct {
	kind   Kind
	itemID string
	origin Target
	hover  Target
	card   model.Card
	ended  bool
}

func (s *Session) Kind() Kind {
	return s.kind
}

// ItemID is the dragged card or list ID.
func (s *Session) ItemID() string {
	return s.itemID
}

func (s *Session) Origin() Target {
	return s.origin
}

// Hover returns the live hover target.
func (s *Session) Hover() Target {
	return s.hover
}

// Preview returns the dragged card's payload. Zero for list gestures.
func (s *Session) Preview() model.Card {
	return s.card
}

// HoverOver updates the live hover target.
func (s *Session) HoverOver(t Target) {
	if s == nil || s.ended {
		return
	}
	s.hover = t
}

// Leave clears the hover target; a drop now would cancel.
func (s *Session) Leave() {
	s.HoverOver(Target{Index: NoIndex})
}

// IsOverSlot reports whether an active card gesture is over listID's slot.
func (s *Session) IsOverSlot(listID string) bool {
	return s != nil && !s.ended && s.kind == KindCard && s.hover.Slot && s.hover.ContainerID == listID
}

// Active reports whether the session is still in progress.
func (s *Session) Active() bool {
	return s != nil && !s.ended
}

// End finishes the gesture at the current hover target.
func (s *Session) End() DragEnd {
	s.ended = true
	return DragEnd{
		Kind:                   s.kind,
		ItemID:                 s.itemID,
		OriginContainerID:      s.origin.ContainerID,
		OriginIndex:            s.origin.Index,
		DestinationContainerID: s.hover.ContainerID,
		DestinationIndex:       s.hover.Index,
		IsDestinationSlot:      s.hover.Slot,
		Card:                   s.card,
	}
}

// Cancel finishes the gesture with no destination.
func (s *Session) Cancel() DragEnd {
	s.Leave()
	return s.End()
}
