package tileworld

import (
	"fmt"
	"strings"
)

// fixture builds TMX documents for tests. The default is a valid 25x25 map
// of 32px tiles, one image tileset & one fully populated tile layer.
type fixture struct {
	width, height         int
	tileWidth, tileHeight int
	orientation           string
	infinite              int
	tilesets              []string
	layers                []string
}

func newFixture() *fixture {
	return &fixture{
		width:       25,
		height:      25,
		tileWidth:   32,
		tileHeight:  32,
		orientation: "orthogonal",
		tilesets:    []string{imageTileset(1, "terrain", "")},
		layers:      []string{tileLayer(1, 25, 25, csvGrid(25, 25, 1))},
	}
}

func (f *fixture) String() string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="%s" renderorder="right-down" width="%d" height="%d" tilewidth="%d" tileheight="%d" infinite="%d" nextlayerid="9" nextobjectid="9">
 <editorsettings><export format="tmx"/></editorsettings>
 %s
 %s
</map>`, f.orientation, f.width, f.height, f.tileWidth, f.tileHeight, f.infinite,
		strings.Join(f.tilesets, "\n "), strings.Join(f.layers, "\n "))
}

func (f *fixture) Bytes() []byte {
	return []byte(f.String())
}

// imageTileset is a 2x2 32px tileset. Tile 3 has the Resources class so
// objects drawn with it inherit it. `extra` is appended inside the element.
func imageTileset(firstgid int, name, extra string) string {
	return fmt.Sprintf(`<tileset firstgid="%d" name="%s" tilewidth="32" tileheight="32" tilecount="4" columns="2">
  <image source="%s.png" width="64" height="64"/>
  <tile id="3" class="Resources"/>
  %s
 </tileset>`, firstgid, name, name, extra)
}

// collectionTileset has one image per tile, with ids 0 and 5.
func collectionTileset(firstgid int, name string) string {
	return fmt.Sprintf(`<tileset firstgid="%d" name="%s" tilewidth="32" tileheight="32" tilecount="2" columns="0">
  <tile id="5"><image source="img/%s-5.png" width="32" height="32"/></tile>
  <tile id="0"><image source="img/%s-0.png" width="32" height="32"/></tile>
 </tileset>`, firstgid, name, name, name)
}

func tileLayer(id, w, h int, csv string) string {
	return fmt.Sprintf(`<layer id="%d" name="ground-%d" width="%d" height="%d">
  <data encoding="csv">%s</data>
 </layer>`, id, id, w, h, csv)
}

func objectLayer(id int, objects ...string) string {
	return fmt.Sprintf(`<objectgroup id="%d" name="objects-%d">
  %s
 </objectgroup>`, id, id, strings.Join(objects, "\n  "))
}

func resourceObject(id, gid int, x, y float64, amount string) string {
	return fmt.Sprintf(`<object id="%d" class="Resources" gid="%d" x="%v" y="%v" width="32" height="32">
   <properties>
    <property name="ResourceType" value="Iron"/>
    <property name="Amount" type="int" value="%s"/>
   </properties>
  </object>`, id, gid, x, y, amount)
}

// csvGrid is a w*h grid of `gid`
func csvGrid(w, h int, gid uint32) string {
	ids := make([]uint32, w*h)
	for i := range ids {
		ids[i] = gid
	}
	return string(encodeCSV(w, h, ids))
}
