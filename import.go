package tileworld

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"sort"
)

// Importer turns TMX documents into validated WorldMaps.
// It has no side effects beyond reading through its ResourceReader.
type Importer struct {
	cfg    *Config
	reader ResourceReader
	log    *log.Logger
}

// NewImporter returns an importer that reads external tilesets via `reader`.
// A nil config uses DefaultConfig()
func NewImporter(cfg *Config, reader ResourceReader) *Importer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Importer{
		cfg:    cfg,
		reader: reader,
		log:    log.New(os.Stderr, "tileworld: ", log.LstdFlags),
	}
}

// SetLogger replaces the default logger
func (i *Importer) SetLogger(l *log.Logger) {
	i.log = l
}

func (i *Importer) debugf(format string, args ...interface{}) {
	if i.cfg.Debug {
		i.log.Printf(format, args...)
	}
}

// Open reads & imports the map at `path` from our reader.
func (i *Importer) Open(path string) (*WorldMap, error) {
	data, err := i.read(path)
	if err != nil {
		return nil, &ImportError{Map: path, Err: fmt.Errorf("%w: %v", ErrDocument, err)}
	}
	return i.Import(path, data)
}

// Import validates the TMX document `data`. `path` names the document; paths
// inside it (tilesets, images) are relative to it.
// The first problem found is returned as an *ImportError.
func (i *Importer) Import(path string, data []byte) (*WorldMap, error) {
	doc := &Document{}
	if err := xml.Unmarshal(data, doc); err != nil {
		return nil, &ImportError{Map: path, Err: fmt.Errorf("%w: %v", ErrDocument, err)}
	}

	wm, err := i.convert(path, doc)
	if err != nil {
		return nil, err
	}

	i.debugf("imported %s: %dx%d, %d layers, %d tilesets", path, wm.Width, wm.Height, len(wm.Layers), len(wm.Tilesets))
	return wm, nil
}

// importState carries what we know about where we are in the document, so
// errors can say which part was bad.
type importState struct {
	path    string
	layer   uint32
	tileset string
	object  uint32
}

func (s *importState) fail(err error) error {
	ie := &ImportError{
		Map:     s.path,
		Layer:   s.layer,
		Tileset: s.tileset,
		Object:  s.object,
		Err:     err,
	}
	var pe *propertyError
	if errors.As(err, &pe) {
		ie.Property = pe.name
		ie.Err = pe.err
	}
	return ie
}

func (i *Importer) convert(path string, doc *Document) (*WorldMap, error) {
	st := &importState{path: path}

	if doc.Orientation != OrientationOrthogonal {
		return nil, st.fail(fmt.Errorf("%w: got %q", ErrProjection, doc.Orientation))
	}
	if doc.Infinite != 0 {
		return nil, st.fail(ErrInfinite)
	}
	if doc.Width < i.cfg.MinMapWidth || doc.Height < i.cfg.MinMapHeight {
		return nil, st.fail(fmt.Errorf("%w: %dx%d, need at least %dx%d", ErrMapSize, doc.Width, doc.Height, i.cfg.MinMapWidth, i.cfg.MinMapHeight))
	}
	if doc.TileWidth != i.cfg.TileWidth || doc.TileHeight != i.cfg.TileHeight {
		return nil, st.fail(fmt.Errorf("%w: map tiles are %dx%d, need %dx%d", ErrTileSize, doc.TileWidth, doc.TileHeight, i.cfg.TileWidth, i.cfg.TileHeight))
	}

	props, err := newPropertiesFromList(doc.Properties)
	if err != nil {
		return nil, st.fail(err)
	}

	wm := &WorldMap{
		Name:        path,
		Orientation: doc.Orientation,
		Width:       doc.Width,
		Height:      doc.Height,
		TileWidth:   doc.TileWidth,
		TileHeight:  doc.TileHeight,
		Properties:  props,
		Layers:      []Layer{},
		Tilesets:    map[string]*TilesetRef{},
	}

	for _, tsd := range doc.Tilesets {
		ts, err := i.tileset(st, tsd)
		if err != nil {
			return nil, err
		}
		if _, dup := wm.Tilesets[ts.Name]; dup {
			return nil, st.fail(fmt.Errorf("%w: %q is used by more than one tileset", ErrTilesetName, ts.Name))
		}
		wm.Tilesets[ts.Name] = ts
	}
	st.tileset = ""

	lookup := newGIDLookup(wm)

	for _, ld := range doc.Layers {
		st.layer = ld.ID

		switch ld.Kind() {
		case elemTileLayer:
			tl, err := i.tileLayer(st, wm, lookup, ld, len(wm.Layers))
			if err != nil {
				return nil, err
			}
			wm.Layers = append(wm.Layers, tl)
		case elemObjectLayer:
			ol, err := i.objectLayer(st, wm, lookup, ld, len(wm.Layers))
			if err != nil {
				return nil, err
			}
			wm.Layers = append(wm.Layers, ol)
		case elemImageLayer, elemGroupLayer:
			return nil, st.fail(fmt.Errorf("%w: got <%s>", ErrLayerKind, ld.Kind()))
		default:
			// editorsettings & friends
			i.debugf("%s: ignoring <%s>", path, ld.Kind())
		}
	}

	return wm, nil
}

// tileset validates a tileset (loading it first if it is external).
func (i *Importer) tileset(st *importState, tsd *TilesetDoc) (*TilesetRef, error) {
	// image paths in a tileset are relative to the file they're written in
	docPath := st.path

	if tsd.Source != "" {
		st.tileset = tsd.Source
		docPath = resolvePath(st.path, tsd.Source)

		ext, err := i.readTileset(docPath)
		if err != nil {
			return nil, st.fail(fmt.Errorf("%w %s: %v", ErrTilesetSource, docPath, err))
		}
		ext.FirstGID = tsd.FirstGID
		tsd = ext
	}

	st.tileset = tsd.Name
	if tsd.Name == "" {
		return nil, st.fail(fmt.Errorf("%w: tileset has no name", ErrTilesetName))
	}
	if tsd.FirstGID == 0 {
		return nil, st.fail(fmt.Errorf("%w: firstgid must be at least 1", ErrDocument))
	}
	if tsd.TileWidth != i.cfg.TileWidth || tsd.TileHeight != i.cfg.TileHeight {
		return nil, st.fail(fmt.Errorf("%w: tileset tiles are %dx%d, need %dx%d", ErrTileSize, tsd.TileWidth, tsd.TileHeight, i.cfg.TileWidth, i.cfg.TileHeight))
	}
	if tsd.Spacing != 0 {
		return nil, st.fail(fmt.Errorf("%w: spacing is %d, need 0", ErrTilesetSpacing, tsd.Spacing))
	}

	hasTileImages := false
	for _, t := range tsd.Tiles {
		if t.Image != nil {
			hasTileImages = true
			break
		}
	}
	if err := checkTextureMode(i.cfg.TextureMode, tsd.Image != nil, hasTileImages); err != nil {
		return nil, st.fail(err)
	}

	props, err := newPropertiesFromList(tsd.Properties)
	if err != nil {
		return nil, st.fail(err)
	}

	ts := &TilesetRef{
		Name:       tsd.Name,
		FirstGID:   tsd.FirstGID,
		TileWidth:  tsd.TileWidth,
		TileHeight: tsd.TileHeight,
		Spacing:    tsd.Spacing,
		Margin:     tsd.Margin,
		TileCount:  tsd.TileCount,
		Columns:    tsd.Columns,
		TileImages: map[uint32]string{},
		Properties: props,
		tileClass:  map[uint32]string{},
		tileProps:  map[uint32]*Properties{},
	}
	if tsd.Image != nil {
		ts.Image = resolvePath(docPath, tsd.Image.Source)
		ts.ImageWidth = tsd.Image.Width
		ts.ImageHeight = tsd.Image.Height
	}

	for _, t := range tsd.Tiles {
		tp, err := newPropertiesFromList(t.Properties)
		if err != nil {
			return nil, st.fail(fmt.Errorf("tile %d: %w", t.ID, err))
		}
		if len(t.Properties) > 0 {
			ts.tileProps[t.ID] = tp
		}
		if t.Class != "" {
			ts.tileClass[t.ID] = t.Class
		}
		if t.Image != nil {
			ts.TileImages[t.ID] = resolvePath(docPath, t.Image.Source)
		}
	}

	i.debugf("%s: tileset %q firstgid %d collection %v", st.path, ts.Name, ts.FirstGID, ts.IsCollection())
	return ts, nil
}

func (i *Importer) tileLayer(st *importState, wm *WorldMap, lookup *gidLookup, ld *LayerDoc, index int) (*TileLayer, error) {
	if ld.OffsetX != 0 || ld.OffsetY != 0 {
		return nil, st.fail(fmt.Errorf("%w: (%v,%v)", ErrLayerOffset, ld.OffsetX, ld.OffsetY))
	}
	if ld.Width != wm.Width || ld.Height != wm.Height {
		return nil, st.fail(fmt.Errorf("%w: layer is %dx%d, map is %dx%d", ErrLayerSize, ld.Width, ld.Height, wm.Width, wm.Height))
	}
	if ld.Data == nil {
		return nil, st.fail(fmt.Errorf("%w: layer has no data", ErrEncoding))
	}
	if len(ld.Data.Chunks) > 0 {
		return nil, st.fail(fmt.Errorf("%w: layer data is chunked", ErrInfinite))
	}

	gids, err := ld.Data.decode(wm.Width * wm.Height)
	if err != nil {
		return nil, st.fail(fmt.Errorf("%w: %v", ErrEncoding, err))
	}

	props, err := newPropertiesFromList(ld.Properties)
	if err != nil {
		return nil, st.fail(err)
	}

	tl := NewTileLayer(index, ld.ID, ld.Name, ld.Width, ld.Height)
	tl.Visible = isVisible(ld.Visible)
	tl.Properties = props

	for idx, gid := range gids {
		if gid == 0 {
			continue // nil tile
		}
		ref, err := lookup.resolve(gid)
		if err != nil {
			// the reverse of index = y * width + x
			return nil, st.fail(fmt.Errorf("tile (%d,%d): %w", idx%wm.Width, idx/wm.Width, err))
		}
		tl.Tiles[idx] = ref
	}

	return tl, nil
}

func (i *Importer) objectLayer(st *importState, wm *WorldMap, lookup *gidLookup, ld *LayerDoc, index int) (*ObjectLayer, error) {
	if ld.OffsetX != 0 || ld.OffsetY != 0 {
		return nil, st.fail(fmt.Errorf("%w: (%v,%v)", ErrLayerOffset, ld.OffsetX, ld.OffsetY))
	}

	props, err := newPropertiesFromList(ld.Properties)
	if err != nil {
		return nil, st.fail(err)
	}

	ol := NewObjectLayer(index, ld.ID, ld.Name)
	ol.Visible = isVisible(ld.Visible)
	ol.Properties = props

	for _, od := range ld.Objects {
		st.object = od.ID
		o, err := i.object(wm, lookup, od)
		if err != nil {
			return nil, st.fail(err)
		}
		ol.Objects = append(ol.Objects, o)
	}
	st.object = 0

	return ol, nil
}

// object validates a single object: shape, then the tile it's drawn with,
// then its class & properties.
func (i *Importer) object(wm *WorldMap, lookup *gidLookup, od *ObjectDoc) (*MapObject, error) {
	if od.Rotation != 0 {
		return nil, fmt.Errorf("%w: rotation %v", ErrObjectRotation, od.Rotation)
	}
	if shape := od.shapeName(); shape != "" {
		return nil, fmt.Errorf("%w: %s", ErrObjectShape, shape)
	}
	if od.GID == 0 {
		return nil, fmt.Errorf("%w: object must be a tile", ErrObjectShape)
	}

	tile, err := lookup.resolve(od.GID)
	if err != nil {
		return nil, err
	}

	if od.Width != float64(wm.TileWidth) || od.Height != float64(wm.TileHeight) {
		return nil, fmt.Errorf("%w: object is %vx%v, need exactly one %dx%d tile", ErrObjectShape, od.Width, od.Height, wm.TileWidth, wm.TileHeight)
	}
	if !isTileMultiple(od.X, wm.TileWidth) || !isTileMultiple(od.Y, wm.TileHeight) {
		return nil, fmt.Errorf("%w: position (%v,%v) is not on the tile grid", ErrObjectShape, od.X, od.Y)
	}

	ts := wm.Tilesets[tile.Tileset]

	// objects inherit class & properties from their tile
	class := od.className()
	if class == "" {
		class = ts.TileClass(tile.TileID)
	}
	own, err := newPropertiesFromList(od.Properties)
	if err != nil {
		return nil, err
	}
	props := ts.TileProperties(tile.TileID).Merge(own)

	classed := *od
	classed.Class = class
	record, err := newObjectRecord(&classed, props)
	if err != nil {
		return nil, err
	}

	return &MapObject{
		ID:         od.ID,
		Name:       od.Name,
		Class:      class,
		Tile:       tile,
		X:          od.X,
		Y:          od.Y,
		Width:      od.Width,
		Height:     od.Height,
		Visible:    isVisible(od.Visible),
		Properties: props,
		Record:     record,
	}, nil
}

func (i *Importer) read(path string) ([]byte, error) {
	if i.reader == nil {
		return nil, fmt.Errorf("no resource reader configured")
	}
	rc, err := i.reader.ReadFrom(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ioutil.ReadAll(rc)
}

func (i *Importer) readTileset(path string) (*TilesetDoc, error) {
	if i.reader == nil {
		return nil, fmt.Errorf("no resource reader configured")
	}
	rc, err := i.reader.ReadFrom(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return decodeTileset(rc)
}

// gidLookup finds the tileset a global tile id belongs to: the one with the
// highest firstgid not above it.
type gidLookup struct {
	tilesets []*TilesetRef
}

func newGIDLookup(wm *WorldMap) *gidLookup {
	l := &gidLookup{tilesets: make([]*TilesetRef, 0, len(wm.Tilesets))}
	for _, ts := range wm.Tilesets {
		l.tilesets = append(l.tilesets, ts)
	}
	sort.Slice(l.tilesets, func(i, j int) bool { return l.tilesets[i].FirstGID < l.tilesets[j].FirstGID })
	return l
}

func (l *gidLookup) resolve(gid uint32) (*TileRef, error) {
	if gid&gidFlagMask != 0 {
		return nil, fmt.Errorf("%w: gid %d has flags %#x", ErrTileFlip, gid&^gidFlagMask, gid&gidFlagMask)
	}

	idx := sort.Search(len(l.tilesets), func(i int) bool { return l.tilesets[i].FirstGID > gid }) - 1
	if idx < 0 {
		return nil, fmt.Errorf("%w: gid %d", ErrUnknownTile, gid)
	}

	ts := l.tilesets[idx]
	id := gid - ts.FirstGID
	if !ts.HasTile(id) {
		return nil, fmt.Errorf("%w: gid %d (tile %d of %q)", ErrUnknownTile, gid, id, ts.Name)
	}
	return &TileRef{Tileset: ts.Name, TileID: id}, nil
}
