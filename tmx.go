/* this file holds a simplified set of structs for reading TMX & TSX files.

The struct layout started from github.com/bcvery1/tilepix (all credit to authors).

We only decode the subset of TMX that the world importer accepts. Things we
reject (infinite chunks, image layers, groups, non rectangle objects) are
decoded just far enough to notice them so the importer can fail loudly.
*/
package tileworld

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"encoding/xml"
	"fmt"
	"io"
	"io/ioutil"
	"strconv"
	"strings"
)

// Global tile id flag bits, see doc.mapeditor.org/en/stable/reference/global-tile-ids/
const (
	gidFlipHorizontal = 0x80000000
	gidFlipVertical   = 0x40000000
	gidFlipDiagonal   = 0x20000000
	gidRotateHex      = 0x10000000
	gidFlagMask       = gidFlipHorizontal | gidFlipVertical | gidFlipDiagonal | gidRotateHex
)

// Layer element names we understand (or explicitly refuse).
const (
	elemTileLayer   = "layer"
	elemObjectLayer = "objectgroup"
	elemImageLayer  = "imagelayer"
	elemGroupLayer  = "group"
)

// Document is a TMX file structure representing the map as a whole.
// Layers keeps every unmatched child element in document order, which is the
// only way to keep <layer> and <objectgroup> interleaved as authored.
type Document struct {
	XMLName     xml.Name      `xml:"map"`
	Version     string        `xml:"version,attr,omitempty"`
	Orientation string        `xml:"orientation,attr"` // we only support "orthogonal"
	Infinite    int           `xml:"infinite,attr"`    // we only support 0
	Width       int           `xml:"width,attr"`       // in tiles
	Height      int           `xml:"height,attr"`      // in tiles
	TileWidth   int           `xml:"tilewidth,attr"`   // in pixels
	TileHeight  int           `xml:"tileheight,attr"`  // in pixels
	Properties  []*Property   `xml:"properties>property"`
	Tilesets    []*TilesetDoc `xml:"tileset"`
	Layers      []*LayerDoc   `xml:",any"`
}

// TilesetDoc is a TMX file structure which represents a Tiled Tileset, either
// embedded in a map or the root of an external .tsx file.
type TilesetDoc struct {
	XMLName    xml.Name    `xml:"tileset"`
	FirstGID   uint32      `xml:"firstgid,attr,omitempty"`
	Source     string      `xml:"source,attr,omitempty"`
	Name       string      `xml:"name,attr,omitempty"`
	TileWidth  int         `xml:"tilewidth,attr,omitempty"`
	TileHeight int         `xml:"tileheight,attr,omitempty"`
	Spacing    int         `xml:"spacing,attr,omitempty"`
	Margin     int         `xml:"margin,attr,omitempty"`
	TileCount  int         `xml:"tilecount,attr,omitempty"`
	Columns    int         `xml:"columns,attr,omitempty"`
	Properties []*Property `xml:"properties>property"`
	Image      *Image      `xml:"image"`
	Tiles      []*TileDoc  `xml:"tile"`
}

// Property is a TMX file structure which holds a Tiled property.
type Property struct {
	Name  string `xml:"name,attr"`
	Type  string `xml:"type,attr,omitempty"` // string (default), int, float, bool + others we treat as opaque
	Value string `xml:"value,attr"`
}

// Image is an image file in TMX
type Image struct {
	Source string `xml:"source,attr"`
	Width  int    `xml:"width,attr,omitempty"`
	Height int    `xml:"height,attr,omitempty"`
}

// TileDoc is a TMX tile (from a tileset)
type TileDoc struct {
	ID         uint32      `xml:"id,attr"`
	Class      string      `xml:"class,attr,omitempty"`
	Image      *Image      `xml:"image"`
	Properties []*Property `xml:"properties>property"`
}

// LayerDoc holds any child element of <map> we did not match by name.
// XMLName tells us what kind of layer it actually is.
type LayerDoc struct {
	XMLName    xml.Name
	ID         uint32       `xml:"id,attr,omitempty"`
	Name       string       `xml:"name,attr,omitempty"`
	Width      int          `xml:"width,attr,omitempty"`
	Height     int          `xml:"height,attr,omitempty"`
	OffsetX    float64      `xml:"offsetx,attr,omitempty"`
	OffsetY    float64      `xml:"offsety,attr,omitempty"`
	Visible    *int         `xml:"visible,attr"`
	Properties []*Property  `xml:"properties>property"`
	Data       *Data        `xml:"data"`
	Objects    []*ObjectDoc `xml:"object"`
}

// Kind returns the element name of the layer.
func (l *LayerDoc) Kind() string {
	return l.XMLName.Local
}

// ObjectDoc is a TMX object placed on an object layer.
type ObjectDoc struct {
	ID         uint32      `xml:"id,attr"`
	Name       string      `xml:"name,attr,omitempty"`
	Type       string      `xml:"type,attr,omitempty"`  // pre 1.9 Tiled
	Class      string      `xml:"class,attr,omitempty"` // 1.9+ Tiled
	GID        uint32      `xml:"gid,attr,omitempty"`
	X          float64     `xml:"x,attr"`
	Y          float64     `xml:"y,attr"`
	Width      float64     `xml:"width,attr,omitempty"`
	Height     float64     `xml:"height,attr,omitempty"`
	Rotation   float64     `xml:"rotation,attr,omitempty"`
	Visible    *int        `xml:"visible,attr"`
	Properties []*Property `xml:"properties>property"`
	Ellipse    *marker     `xml:"ellipse"`
	Point      *marker     `xml:"point"`
	Polygon    *marker     `xml:"polygon"`
	Polyline   *marker     `xml:"polyline"`
	Text       *marker     `xml:"text"`
}

// marker is decoded for elements whose presence is all we care about.
type marker struct{}

// className returns the object's class, preferring the 1.9+ attribute.
func (o *ObjectDoc) className() string {
	if o.Class != "" {
		return o.Class
	}
	return o.Type
}

// shapeName returns the name of a non rectangle shape, or "" for rectangles.
func (o *ObjectDoc) shapeName() string {
	switch {
	case o.Ellipse != nil:
		return "ellipse"
	case o.Point != nil:
		return "point"
	case o.Polygon != nil:
		return "polygon"
	case o.Polyline != nil:
		return "polyline"
	case o.Text != nil:
		return "text"
	}
	return ""
}

// isVisible treats a missing visible attribute as visible.
func isVisible(v *int) bool {
	return v == nil || *v != 0
}

// Data is a TMX file structure holding tile layer data.
type Data struct {
	Encoding    string      `xml:"encoding,attr,omitempty"`
	Compression string      `xml:"compression,attr,omitempty"`
	Chunks      []*marker   `xml:"chunk"`
	Tiles       []*DataTile `xml:"tile"`
	RawData     []byte      `xml:",innerxml"`
}

// DataTile is a single <tile gid=".."/> entry of XML encoded layer data.
type DataTile struct {
	GID uint32 `xml:"gid,attr"`
}

// decode returns the raw global tile ids (flags included) of the layer.
// We expect exactly `n` ids.
func (d *Data) decode(n int) ([]uint32, error) {
	var (
		gids []uint32
		err  error
	)

	switch d.Encoding {
	case "csv":
		gids, err = d.decodeCSV()
	case "base64":
		gids, err = d.decodeBase64()
	case "":
		gids = make([]uint32, len(d.Tiles))
		for i, t := range d.Tiles {
			gids[i] = t.GID
		}
	default:
		return nil, fmt.Errorf("unsupported encoding %q", d.Encoding)
	}
	if err != nil {
		return nil, err
	}

	if len(gids) != n {
		return nil, fmt.Errorf("expected %d tiles, found %d", n, len(gids))
	}
	return gids, nil
}

// decodeCSV reads csv encoded tile data
func (d *Data) decodeCSV() ([]uint32, error) {
	cleaner := func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ',' {
			return r
		}
		return -1
	}

	rawDataClean := strings.Trim(strings.Map(cleaner, string(d.RawData)), ",")
	if rawDataClean == "" {
		return []uint32{}, nil
	}

	str := strings.Split(rawDataClean, ",")

	gids := make([]uint32, len(str))
	for i, s := range str {
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return nil, err
		}
		gids[i] = uint32(v)
	}
	return gids, nil
}

// decodeBase64 reads base64 tile data, optionally zlib or gzip compressed.
// Tiled writes each gid as a little endian uint32.
func (d *Data) decodeBase64() ([]uint32, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(d.RawData)))
	if err != nil {
		return nil, err
	}

	var r io.Reader = bytes.NewReader(raw)
	switch d.Compression {
	case "":
	case "zlib":
		zr, err := zlib.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	case "gzip":
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer gr.Close()
		r = gr
	default:
		return nil, fmt.Errorf("unsupported compression %q", d.Compression)
	}

	buf, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("tile data length %d is not a multiple of 4", len(buf))
	}

	gids := make([]uint32, len(buf)/4)
	for i := range gids {
		gids[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	return gids, nil
}

// encodeCSV turns a list of tile ids into tiled's csv format (one row per line)
func encodeCSV(width, height int, in []uint32) []byte {
	values := make([]string, height)

	for row := 0; row < height; row++ {
		csvrow := make([]string, width)
		for col := 0; col < width; col++ {
			csvrow[col] = strconv.FormatUint(uint64(in[row*width+col]), 10)
		}
		values[row] = strings.Join(csvrow, ",")
	}

	return []byte("\n" + strings.Join(values, ",\n") + "\n")
}

// EncodeTileset writes the tileset as a standalone .tsx document.
func EncodeTileset(w io.Writer, ts *TilesetDoc) error {
	out := *ts
	out.FirstGID = 0
	out.Source = ""

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", " ")
	if err := enc.Encode(&out); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// decodeTileset reads a standalone .tsx document.
func decodeTileset(r io.Reader) (*TilesetDoc, error) {
	ts := &TilesetDoc{}
	if err := xml.NewDecoder(r).Decode(ts); err != nil {
		return nil, err
	}
	return ts, nil
}
