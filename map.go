/* file holds the validated, in memory form of an imported map & helpers to
write it back out as TMX.
*/
package tileworld

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"io/ioutil"
	"path"
	"sort"
	"strings"
)

// OrientationOrthogonal is the only projection we support
const OrientationOrthogonal = "orthogonal"

// WorldMap is the result of a successful import. Nothing here is mutated by
// the rest of the module; a world clones what it needs.
type WorldMap struct {
	// Name is the path the map was imported from
	Name string

	Orientation string

	// in tiles
	Width  int
	Height int

	// in pixels
	TileWidth  int
	TileHeight int

	Properties *Properties

	// Layers are in authoring order (bottom first)
	Layers []Layer

	// Tilesets by name
	Tilesets map[string]*TilesetRef
}

// TilesetNames returns tileset names in firstgid order.
func (m *WorldMap) TilesetNames() []string {
	names := make([]string, 0, len(m.Tilesets))
	for name := range m.Tilesets {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := m.Tilesets[names[i]], m.Tilesets[names[j]]
		if a.FirstGID == b.FirstGID {
			return names[i] < names[j]
		}
		return a.FirstGID < b.FirstGID
	})
	return names
}

// TileLayers returns only the tile layers, in authoring order.
func (m *WorldMap) TileLayers() []*TileLayer {
	out := []*TileLayer{}
	for _, l := range m.Layers {
		if tl, ok := l.(*TileLayer); ok {
			out = append(out, tl)
		}
	}
	return out
}

// ObjectLayers returns only the object layers, in authoring order.
func (m *WorldMap) ObjectLayers() []*ObjectLayer {
	out := []*ObjectLayer{}
	for _, l := range m.Layers {
		if ol, ok := l.(*ObjectLayer); ok {
			out = append(out, ol)
		}
	}
	return out
}

// TilesetRef is an imported tileset. Exactly one of Image or TileImages is set.
type TilesetRef struct {
	Name     string
	FirstGID uint32

	// in pixels
	TileWidth  int
	TileHeight int
	Spacing    int
	Margin     int

	TileCount int
	Columns   int

	// Image is the path of the shared tileset image, relative to the reader
	Image       string
	ImageWidth  int
	ImageHeight int

	// TileImages holds per tile image paths (relative to the reader) for
	// image collection tilesets
	TileImages map[uint32]string

	Properties *Properties

	tileClass map[uint32]string
	tileProps map[uint32]*Properties
}

// IsCollection returns if the tileset is made of one image per tile
func (t *TilesetRef) IsCollection() bool {
	return len(t.TileImages) > 0
}

// HasTile returns if `id` is a tile of this tileset
func (t *TilesetRef) HasTile(id uint32) bool {
	if t.IsCollection() {
		_, ok := t.TileImages[id]
		return ok
	}
	if t.TileCount > 0 {
		return int(id) < t.TileCount
	}
	return true
}

// TileClass returns the class set on a tile in the tileset, or ""
func (t *TilesetRef) TileClass(id uint32) string {
	return t.tileClass[id]
}

// TileProperties returns the properties set on a tile in the tileset.
// Never nil.
func (t *TilesetRef) TileProperties(id uint32) *Properties {
	p := NewProperties()
	return p.Merge(t.tileProps[id])
}

// Layer is one layer of a WorldMap, either a *TileLayer or an *ObjectLayer.
type Layer interface {
	// Index is the position of the layer in authoring order
	Index() int

	// LayerID is the id assigned by the map editor
	LayerID() uint32

	LayerName() string

	layer()
}

// TileRef points to a single tile in a tileset.
type TileRef struct {
	Tileset string
	TileID  uint32

	FlipH bool
	FlipV bool
	FlipD bool
}

// TileLayer is a dense grid of (optional) tiles.
type TileLayer struct {
	index int

	ID      uint32
	Name    string
	Width   int
	Height  int
	Visible bool

	Properties *Properties

	// Tiles is row major in authoring order (row 0 at the top).
	// A nil entry is an empty cell.
	Tiles []*TileRef
}

// NewTileLayer returns an empty tile layer at `index` with the given size.
func NewTileLayer(index int, id uint32, name string, width, height int) *TileLayer {
	return &TileLayer{
		index:      index,
		ID:         id,
		Name:       name,
		Width:      width,
		Height:     height,
		Visible:    true,
		Properties: NewProperties(),
		Tiles:      make([]*TileRef, width*height),
	}
}

func (l *TileLayer) Index() int        { return l.index }
func (l *TileLayer) LayerID() uint32   { return l.ID }
func (l *TileLayer) LayerName() string { return l.Name }
func (*TileLayer) layer()              {}

// At returns the tile at authoring position (x, y) (or nil if unset)
func (l *TileLayer) At(x, y int) *TileRef {
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return nil
	}
	return l.Tiles[y*l.Width+x]
}

// Set the tile at authoring position (x, y)
func (l *TileLayer) Set(x, y int, t *TileRef) error {
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return fmt.Errorf("(%d,%d) is out of bounds for layer %d", x, y, l.ID)
	}
	l.Tiles[y*l.Width+x] = t
	return nil
}

// ObjectLayer is a sparse list of placed objects.
type ObjectLayer struct {
	index int

	ID      uint32
	Name    string
	Visible bool

	Properties *Properties

	Objects []*MapObject
}

// NewObjectLayer returns an empty object layer at `index`.
func NewObjectLayer(index int, id uint32, name string) *ObjectLayer {
	return &ObjectLayer{
		index:      index,
		ID:         id,
		Name:       name,
		Visible:    true,
		Properties: NewProperties(),
		Objects:    []*MapObject{},
	}
}

func (l *ObjectLayer) Index() int        { return l.index }
func (l *ObjectLayer) LayerID() uint32   { return l.ID }
func (l *ObjectLayer) LayerName() string { return l.Name }
func (*ObjectLayer) layer()              {}

// MapObject is an object placed on an object layer.
type MapObject struct {
	ID    uint32
	Name  string
	Class string

	// Tile is the tile the object is drawn with
	Tile *TileRef

	// in pixels, top left origin
	X      float64
	Y      float64
	Width  float64
	Height float64

	Visible bool

	// Properties are the object's own properties, with those of its tile
	// underneath
	Properties *Properties

	Record ObjectRecord
}

// Cell returns the authoring cell of the object given a tile size.
// ok is false if the position isn't a whole number of tiles.
func (o *MapObject) Cell(tileWidth, tileHeight int) (x, y int, ok bool) {
	return pixelToCell(o.X, tileWidth), pixelToCell(o.Y, tileHeight), isTileMultiple(o.X, tileWidth) && isTileMultiple(o.Y, tileHeight)
}

func pixelToCell(px float64, size int) int {
	return int(px) / size
}

func isTileMultiple(px float64, size int) bool {
	return px >= 0 && px == float64(int(px)) && int(px)%size == 0
}

// Encode the map as TMX with every tileset embedded & csv tile data.
// Image paths are written relative to `fname`.
func (m *WorldMap) Encode(w io.Writer, fname string) error {
	doc := &Document{
		Version:     "1.10",
		Orientation: m.Orientation,
		Width:       m.Width,
		Height:      m.Height,
		TileWidth:   m.TileWidth,
		TileHeight:  m.TileHeight,
		Tilesets:    []*TilesetDoc{},
		Layers:      []*LayerDoc{},
	}
	if m.Properties != nil {
		doc.Properties = m.Properties.List()
	}

	for _, name := range m.TilesetNames() {
		doc.Tilesets = append(doc.Tilesets, m.Tilesets[name].doc(fname))
	}

	for _, l := range m.Layers {
		ld := &LayerDoc{ID: l.LayerID(), Name: l.LayerName()}

		switch v := l.(type) {
		case *TileLayer:
			ld.XMLName = xml.Name{Local: elemTileLayer}
			ld.Width = v.Width
			ld.Height = v.Height
			ld.Visible = visibleAttr(v.Visible)
			ld.Properties = listOrNil(v.Properties)

			gids := make([]uint32, len(v.Tiles))
			for i, t := range v.Tiles {
				gid, err := m.gid(t)
				if err != nil {
					return err
				}
				gids[i] = gid
			}
			ld.Data = &Data{Encoding: "csv", RawData: encodeCSV(v.Width, v.Height, gids)}
		case *ObjectLayer:
			ld.XMLName = xml.Name{Local: elemObjectLayer}
			ld.Visible = visibleAttr(v.Visible)
			ld.Properties = listOrNil(v.Properties)

			for _, o := range v.Objects {
				gid, err := m.gid(o.Tile)
				if err != nil {
					return err
				}
				ld.Objects = append(ld.Objects, &ObjectDoc{
					ID:         o.ID,
					Name:       o.Name,
					Class:      o.Class,
					GID:        gid,
					X:          o.X,
					Y:          o.Y,
					Width:      o.Width,
					Height:     o.Height,
					Visible:    visibleAttr(o.Visible),
					Properties: listOrNil(o.Properties),
				})
			}
		}

		doc.Layers = append(doc.Layers, ld)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", " ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteFile encodes the map to `fname`
func (m *WorldMap) WriteFile(fname string) error {
	buff := bytes.Buffer{}
	err := m.Encode(&buff, fname)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(fname, buff.Bytes(), 0644)
}

// gid returns the global tile id of `t` (0 for nil)
func (m *WorldMap) gid(t *TileRef) (uint32, error) {
	if t == nil {
		return 0, nil
	}
	ts, ok := m.Tilesets[t.Tileset]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownTileset, t.Tileset)
	}
	gid := ts.FirstGID + t.TileID
	if t.FlipH {
		gid |= gidFlipHorizontal
	}
	if t.FlipV {
		gid |= gidFlipVertical
	}
	if t.FlipD {
		gid |= gidFlipDiagonal
	}
	return gid, nil
}

// doc returns the tileset as an embedded TMX tileset.
func (t *TilesetRef) doc(fname string) *TilesetDoc {
	ts := &TilesetDoc{
		FirstGID:   t.FirstGID,
		Name:       t.Name,
		TileWidth:  t.TileWidth,
		TileHeight: t.TileHeight,
		Spacing:    t.Spacing,
		Margin:     t.Margin,
		TileCount:  t.TileCount,
		Columns:    t.Columns,
		Properties: listOrNil(t.Properties),
	}
	if t.Image != "" {
		ts.Image = &Image{Source: relativePath(fname, t.Image), Width: t.ImageWidth, Height: t.ImageHeight}
	}

	ids := map[uint32]bool{}
	for id := range t.TileImages {
		ids[id] = true
	}
	for id := range t.tileClass {
		ids[id] = true
	}
	for id := range t.tileProps {
		ids[id] = true
	}
	sorted := make([]uint32, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	for _, id := range sorted {
		td := &TileDoc{ID: id, Class: t.tileClass[id], Properties: listOrNil(t.tileProps[id])}
		if src, ok := t.TileImages[id]; ok {
			td.Image = &Image{Source: relativePath(fname, src)}
		}
		ts.Tiles = append(ts.Tiles, td)
	}
	return ts
}

// relativePath is the inverse of resolvePath for paths under the document's
// directory; anything else is returned as is.
func relativePath(doc, p string) string {
	dir := path.Dir(doc)
	if dir == "." {
		return p
	}
	return strings.TrimPrefix(p, dir+"/")
}

func visibleAttr(v bool) *int {
	if v {
		return nil
	}
	zero := 0
	return &zero
}

func listOrNil(p *Properties) []*Property {
	if p == nil {
		return nil
	}
	l := p.List()
	if len(l) == 0 {
		return nil
	}
	return l
}
