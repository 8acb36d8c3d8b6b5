package inventory

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidshard/tileworld"
	"github.com/voidshard/tileworld/event"
	"github.com/voidshard/tileworld/item"
)

func TestFromConfig(t *testing.T) {
	q := event.NewQueue()

	inv, err := FromConfig(tileworld.DefaultConfig().Inventory, q)
	require.NoError(t, err)

	assert.Equal(t, uint32(100), inv.Resource(tileworld.ResourceIron))
	assert.Equal(t, uint32(1), inv.Item(item.Harvester))
	assert.Equal(t, uint32(0), inv.Item(item.Conveyor))
	assert.Equal(t, 0, q.Len())

	_, err = FromConfig(tileworld.InventoryConfig{Items: map[string]uint32{"Rocket": 1}}, q)
	assert.Error(t, err)
	_, err = FromConfig(tileworld.InventoryConfig{Resources: map[string]uint32{"Gold": 1}}, q)
	assert.Error(t, err)
}

func TestItemsSaturate(t *testing.T) {
	q := event.NewQueue()
	inv := New(q)

	inv.AddItem(item.Conveyor)
	inv.RemoveItem(item.Conveyor)
	inv.RemoveItem(item.Conveyor)

	assert.Equal(t, uint32(0), inv.Item(item.Conveyor))

	// every call notifies, even a no-op removal
	evts := q.Drain()
	require.Len(t, evts, 3)
	for _, e := range evts {
		assert.Equal(t, event.InventoryChanged, e.Type)
	}
	assert.Equal(t, uint32(1), evts[0].Data.(Snapshot).Items[item.Conveyor])
	assert.Equal(t, uint32(0), evts[2].Data.(Snapshot).Items[item.Conveyor])
}

func TestResources(t *testing.T) {
	inv := New(event.NewQueue())

	inv.AddResource(tileworld.ResourceIron, 10)
	assert.Equal(t, uint32(4), inv.RemoveResource(tileworld.ResourceIron, 4))
	assert.Equal(t, uint32(6), inv.RemoveResource(tileworld.ResourceIron, 40))
	assert.Equal(t, uint32(0), inv.Resource(tileworld.ResourceIron))

	inv.AddResource(tileworld.ResourceIron, math.MaxUint32)
	inv.AddResource(tileworld.ResourceIron, 5)
	assert.Equal(t, uint32(math.MaxUint32), inv.Resource(tileworld.ResourceIron))
}

func TestSnapshotIsACopy(t *testing.T) {
	inv := New(nil)
	inv.AddItem(item.Harvester)

	s := inv.Snapshot()
	s.Items[item.Harvester] = 50

	assert.Equal(t, uint32(1), inv.Item(item.Harvester))
}
