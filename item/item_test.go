package item

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidshard/tileworld"
	"github.com/voidshard/tileworld/event"
)

type countingRemover struct {
	removed []Type
}

func (c *countingRemover) RemoveItem(t Type) {
	c.removed = append(c.removed, t)
}

func TestLegality(t *testing.T) {
	cases := []struct {
		Item   Type
		Object bool
		Tile   bool
	}{
		{Harvester, true, false},
		{Conveyor, false, true},
		{Crafter, false, true},
	}

	for _, tt := range cases {
		t.Run(tt.Item.String(), func(t *testing.T) {
			assert.Equal(t, tt.Object, tt.Item.CanDropOnObject(tileworld.ObjectResources))
			assert.Equal(t, tt.Tile, tt.Item.CanDropOnTile())
		})
	}
}

func TestHarvesterDropOnDeposit(t *testing.T) {
	q := event.NewQueue()
	inv := &countingRemover{}
	dep := tileworld.NewResourceDeposit(12, tileworld.ResourceIron, 100)

	replace := Harvester.DropOnObject(dep, inv, q)

	assert.True(t, replace)
	assert.Equal(t, []Type{Harvester}, inv.removed)

	evts := q.Drain()
	require.Len(t, evts, 1)
	assert.Equal(t, event.CreateItem, evts[0].Type)

	created := evts[0].Data.(Created)
	assert.Equal(t, Harvester, created.Type)
	assert.Equal(t, &HarvesterData{Resource: tileworld.ResourceIron, Remaining: 100, DepositID: 12}, created.Data)
	assert.Equal(t, Harvester, created.Data.Type())
}

func TestDropOnTile(t *testing.T) {
	for _, it := range []Type{Conveyor, Crafter} {
		q := event.NewQueue()
		inv := &countingRemover{}

		assert.False(t, it.DropOnTile(inv, q))
		assert.Equal(t, []Type{it}, inv.removed)

		evts := q.Drain()
		require.Len(t, evts, 1)
		assert.Equal(t, it, evts[0].Data.(Created).Data.Type())
	}
}

func TestIllegalDropsPanic(t *testing.T) {
	dep := tileworld.NewResourceDeposit(1, tileworld.ResourceIron, 1)

	assert.Panics(t, func() { Conveyor.DropOnObject(dep, &countingRemover{}, event.NewQueue()) })
	assert.Panics(t, func() { Harvester.DropOnObject(nil, &countingRemover{}, event.NewQueue()) })
	assert.Panics(t, func() { Harvester.DropOnTile(&countingRemover{}, event.NewQueue()) })
}

func TestParseType(t *testing.T) {
	for _, it := range Types() {
		got, err := ParseType(it.String())
		assert.NoError(t, err)
		assert.Equal(t, it, got)
	}

	_, err := ParseType("Teleporter")
	assert.Error(t, err)
}
