package card

import "github.com/lixenwraith/void-fighter/config"

// FromConfig converts a configured card; a missing level reads as 1
func FromConfig(cc config.CardConfig) Card {
	level := cc.Level
	if level < 1 {
		level = 1
	}
	return Card{SlotID: cc.Slot, Type: Type(cc.Type), Level: level, Rarity: ParseRarity(cc.Rarity)}
}

// SliceFromConfig converts configured cards preserving order
func SliceFromConfig(ccs []config.CardConfig) Slice {
	out := make(Slice, 0, len(ccs))
	for _, cc := range ccs {
		out = append(out, FromConfig(cc))
	}
	return out
}
