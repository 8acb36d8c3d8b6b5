package world

import (
	"github.com/voidshard/tileworld"
)

// testMap is a w x h map with one full tile layer (tile id = index % 4)
// followed by an empty object layer.
func testMap(w, h int) *tileworld.WorldMap {
	wm := &tileworld.WorldMap{
		Name:        "test.tmx",
		Orientation: tileworld.OrientationOrthogonal,
		Width:       w,
		Height:      h,
		TileWidth:   32,
		TileHeight:  32,
		Tilesets: map[string]*tileworld.TilesetRef{
			"terrain": {
				Name:       "terrain",
				FirstGID:   1,
				TileWidth:  32,
				TileHeight: 32,
				TileCount:  4,
				Columns:    2,
				Image:      "terrain.png",
			},
		},
	}

	tl := tileworld.NewTileLayer(0, 1, "ground", w, h)
	for i := range tl.Tiles {
		tl.Tiles[i] = &tileworld.TileRef{Tileset: "terrain", TileID: uint32(i % 4)}
	}
	wm.Layers = []tileworld.Layer{tl, tileworld.NewObjectLayer(1, 2, "objects")}
	return wm
}

// addDeposit puts an iron deposit at authoring cell (x, y) of the first
// object layer.
func addDeposit(wm *tileworld.WorldMap, id uint32, x, y int, amount uint32) *tileworld.MapObject {
	o := &tileworld.MapObject{
		ID:      id,
		Name:    "iron",
		Class:   "Resources",
		Tile:    &tileworld.TileRef{Tileset: "terrain", TileID: 3},
		X:       float64(x * wm.TileWidth),
		Y:       float64(y * wm.TileHeight),
		Width:   float64(wm.TileWidth),
		Height:  float64(wm.TileHeight),
		Visible: true,
		Record:  tileworld.NewResourceDeposit(id, tileworld.ResourceIron, amount),
	}
	ol := wm.ObjectLayers()[0]
	ol.Objects = append(ol.Objects, o)
	return o
}

// fakeLoader hands out handles in load order
type fakeLoader struct {
	loaded []string
}

func (f *fakeLoader) Load(path string) tileworld.Handle {
	f.loaded = append(f.loaded, path)
	return tileworld.Handle(len(f.loaded))
}
