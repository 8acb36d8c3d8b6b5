package item

import (
	"github.com/voidshard/tileworld"
)

// Data is the runtime state of a placed item.
// The only implementations live in this package.
type Data interface {
	Type() Type
	itemData()
}

// HarvesterData is a harvester placed on a resource deposit.
type HarvesterData struct {
	Resource tileworld.ResourceType

	// Remaining is what was left in the deposit when the harvester went down
	Remaining uint32

	// DepositID is the map editor id of the deposit it replaced
	DepositID uint32
}

func (*HarvesterData) Type() Type { return Harvester }
func (*HarvesterData) itemData()  {}

// ConveyorData is a placed conveyor.
type ConveyorData struct{}

func (*ConveyorData) Type() Type { return Conveyor }
func (*ConveyorData) itemData()  {}

// CrafterData is a placed crafter.
type CrafterData struct{}

func (*CrafterData) Type() Type { return Crafter }
func (*CrafterData) itemData()  {}
