package card

import (
	"errors"
	"sort"
)

var (
	ErrEmptySlot    = errors.New("card: empty slot id")
	ErrInvalidLevel = errors.New("card: level must be >= 1")
	ErrUnknownType  = errors.New("card: empty card type")
)

// Set is the installed-card configuration of a ship, keyed by slot id
// Version increments on every mutation so observers can detect changes
type Set struct {
	slots   map[string]Card
	version uint64
}

func NewSet(cards ...Card) *Set {
	s := &Set{slots: make(map[string]Card)}
	for _, c := range cards {
		_ = s.Install(c)
	}
	return s
}

// Install places a card in its slot, replacing any previous card there
func (s *Set) Install(c Card) error {
	switch {
	case c.SlotID == "":
		return ErrEmptySlot
	case c.Type == "":
		return ErrUnknownType
	case c.Level < 1:
		return ErrInvalidLevel
	}
	s.slots[c.SlotID] = c
	s.version++
	return nil
}

// Remove empties a slot; returns false when it was already empty
func (s *Set) Remove(slotID string) bool {
	if _, ok := s.slots[slotID]; !ok {
		return false
	}
	delete(s.slots, slotID)
	s.version++
	return true
}

// Clear removes every card
func (s *Set) Clear() {
	if len(s.slots) == 0 {
		return
	}
	s.slots = make(map[string]Card)
	s.version++
}

// Cards returns installed cards ordered by slot id
func (s *Set) Cards() []Card {
	out := make([]Card, 0, len(s.slots))
	for _, c := range s.slots {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlotID < out[j].SlotID })
	return out
}

// Slot returns the card in a slot
func (s *Set) Slot(slotID string) (Card, bool) {
	c, ok := s.slots[slotID]
	return c, ok
}

// Types returns the set of installed card types
func (s *Set) Types() map[Type]bool {
	out := make(map[Type]bool, len(s.slots))
	for _, c := range s.slots {
		out[c.Type] = true
	}
	return out
}

// Has reports whether any installed card has type t
func (s *Set) Has(t Type) bool {
	for _, c := range s.slots {
		if c.Type == t {
			return true
		}
	}
	return false
}

// HasBinding reports whether any installed card binds to the named system
func (s *Set) HasBinding(system string) bool {
	for _, c := range s.slots {
		if name, ok := SystemName(c.Type); ok && name == system {
			return true
		}
	}
	return false
}

func (s *Set) Len() int { return len(s.slots) }

func (s *Set) Version() uint64 { return s.version }

// Slice is an Inventory over a fixed list, used for starter decks and stock
type Slice []Card

func (s Slice) Cards() []Card { return s }
