package ship

import (
	"github.com/lixenwraith/void-fighter/config"
	"github.com/lixenwraith/void-fighter/core"
)

// TemplateFromConfig maps a ship entry; an unknown kind reads as an enemy ship
func TemplateFromConfig(sc config.ShipConfig) Template {
	kind := core.ParseKind(sc.Kind)
	if kind == core.KindUnknown {
		kind = core.KindEnemyShip
	}
	return Template{
		TypeID:       sc.TypeID,
		Name:         sc.Name,
		Kind:         kind,
		StationType:  sc.StationType,
		MaxHull:      sc.MaxHull,
		MaxEnergy:    sc.MaxEnergy,
		RechargeRate: sc.RechargeRate,
		RadiusM:      sc.RadiusM,
	}
}
