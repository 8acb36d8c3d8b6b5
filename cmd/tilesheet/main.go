package main

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"io/ioutil"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/nfnt/resize"

	"github.com/voidshard/tileworld"
)

const desc = `Cuts a tileset the game can use (.tsx + image(s)) out of a larger image.

The chosen region is optionally stripped of grid lines between tiles, then
resized to the nearest whole number of tiles. The result is either one sheet
image (a single image tileset) or one image per tile (an image collection, for
texture_mode: collection).

Tiles can be given a class with --class, eg. --class 3=Resources makes objects
drawn with tile 3 resource deposits by default.`

var cli struct {
	// input image to cut tiles out from
	Input string `short:"i" help:"input image"`

	// name of output images and .tsx
	Name string `short:"n" default:"out" help:"output name"`

	// tell us it's ok to overwrite existing stuff (default: no)
	Overwrite bool `help:"overwrite existing file(s) if found"`

	// how wide/high each tile should be in pixels
	TileWidth  int `default:"32" help:"width of each tile in px"`
	TileHeight int `default:"32" help:"height of each tile in px"`

	// width of the grid lines drawn between tiles in the input, if any
	LineWidth  int `help:"remove grid lines this wide between input tiles"`
	InputTileW int `help:"width of each input tile in px (with --line-width)"`
	InputTileH int `help:"height of each input tile in px (with --line-width)"`

	// one image per tile rather than one sheet
	Split bool `help:"write one image per tile (an image collection tileset)"`

	// don't write anything
	DryRun bool `help:"print out what you're planning"`

	// where the desired tiles live (rectangle x0,y0 x1,y1 top-left -> bottom-right)
	X0 int    `arg:"" optional:"" default:"0" help:"where to start getting tiles from (x0)"`
	Y0 int    `arg:"" optional:"" default:"0" help:"where to start getting tiles from (y0)"`
	X1 string `arg:"" optional:"" default:"" help:"where to stop getting tiles from (x1). Either an absolute value (pixels) or a 't' value (offset in tiles), defaults to the image width"`
	Y1 string `arg:"" optional:"" default:"" help:"where to stop getting tiles from (y1). Either an absolute value (pixels) or a 't' value (offset in tiles), defaults to the image height"`

	// set properties on the tileset
	Props map[string]string `short:"p" help:"set props on resulting tileset"`

	// tile id -> class
	Class map[string]string `help:"set the class of a tile (eg. 3=Resources)"`
}

func decode(in io.Reader) (image.Image, error) {
	data, err := ioutil.ReadAll(in)
	if err != nil {
		return nil, err
	}

	decoders := []func(io.Reader) (image.Image, error){
		png.Decode,
		gif.Decode,
		jpeg.Decode,
	}

	var lastErr error
	for _, decoder := range decoders {
		im, err := decoder(bytes.NewReader(data))
		if err == nil {
			return im, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

// savePng to disk, unless it exists & we're not allowed to overwrite
func savePng(fpath string, in image.Image) error {
	if fileExists(fpath) && !cli.Overwrite {
		fmt.Println("skipping", fpath, "exists")
		return nil
	}

	buff := new(bytes.Buffer)
	err := png.Encode(buff, in)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(fpath, buff.Bytes(), 0644)
}

// fileExists checks if file exists
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}

// removeLines cuts out tiles of tw x th separated by lines `line` px wide &
// glues them back together.
func removeLines(in image.Image, tw, th, line int) image.Image {
	bnds := in.Bounds()
	tilesHigh := bnds.Dy() / (th + line)
	tilesWide := bnds.Dx() / (tw + line)

	dst := image.NewRGBA(image.Rect(0, 0, tw*tilesWide, th*tilesHigh))

	for ty := 0; ty < tilesHigh; ty++ {
		for tx := 0; tx < tilesWide; tx++ {
			drect := image.Rect(tx*tw, ty*th, (tx+1)*tw, (ty+1)*th)
			spnt := bnds.Min.Add(image.Pt(line+tx*(tw+line), line+ty*(th+line)))
			draw.Draw(dst, drect, in, spnt, draw.Src)
		}
	}

	return dst
}

// sizeToTiles forces input image to be of a width, height of some multiple(s)
// of given input tx,ty (tile x,y size in pixels).
// We default to 1 tile high/wide. Image will be resized to the nearest full
// tile (resized either up or down)
func sizeToTiles(in image.Image, tx, ty int) image.Image {
	width := in.Bounds().Dx()
	height := in.Bounds().Dy()

	if width%tx == 0 && height%ty == 0 && width > 0 && height > 0 {
		return in
	}

	fitx := width / tx
	fity := height / ty

	// if we're more than half a tile short, make the image bigger
	// to fit, otherwise we'll resize downwards, shrinking the image
	if width%tx > tx/2 {
		fitx++
	}
	if height%ty > ty/2 {
		fity++
	}

	if fitx < 1 {
		fitx = 1
	}
	if fity < 1 {
		fity = 1
	}

	return resize.Resize(
		uint(fitx*tx),
		uint(fity*ty),
		in,
		resize.Lanczos3,
	)
}

// cutOut the rectangle marked by `r` from the given image
func cutOut(in image.Image, r image.Rectangle) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), in, r.Min, draw.Src)
	return out
}

// parseProps reads given cli -p --props into a final *Properties
func parseProps() *tileworld.Properties {
	p := tileworld.NewProperties()

	for k, v := range cli.Props {
		if v == "true" {
			p.SetBool(k, true)
			continue
		} else if v == "false" {
			p.SetBool(k, false)
			continue
		}

		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			p.SetInt(k, int(i))
		} else {
			p.SetString(k, v)
		}
	}

	return p
}

// parseOffset handles reading
// "<someint>t" as "<x/y> + offset in tiles"
// or an absolute value. Empty means `max`.
func parseOffset(tilesize, start, max int, offset string) int {
	if offset == "" {
		return max
	}
	intiles := strings.HasSuffix(offset, "t")

	num, err := strconv.ParseInt(strings.TrimSuffix(offset, "t"), 10, 64)
	if err != nil {
		panic(err)
	}

	if intiles {
		return start + (tilesize * int(num))
	}
	return int(num)
}

// parseClasses reads --class into tile id -> class
func parseClasses(count int) map[uint32]string {
	out := map[uint32]string{}
	for k, v := range cli.Class {
		id, err := strconv.ParseUint(k, 10, 32)
		if err != nil {
			panic(fmt.Sprintf("bad tile id %q: %v", k, err))
		}
		if int(id) >= count {
			panic(fmt.Sprintf("tile id %d out of range, the tileset has %d tiles", id, count))
		}
		out[uint32(id)] = v
	}
	return out
}

func main() {
	kong.Parse(
		&cli,
		kong.Name("tilesheet"),
		kong.Description(desc),
	)

	f, err := os.Open(cli.Input)
	if err != nil {
		panic(err)
	}
	in, err := decode(f)
	f.Close()
	if err != nil {
		panic(err)
	}

	bnds := in.Bounds()
	X1 := parseOffset(cli.TileWidth, cli.X0, bnds.Dx(), cli.X1)
	Y1 := parseOffset(cli.TileHeight, cli.Y0, bnds.Dy(), cli.Y1)

	in = cutOut(in, image.Rect(cli.X0, cli.Y0, X1, Y1).Add(bnds.Min))

	if cli.LineWidth > 0 {
		if cli.InputTileW <= 0 || cli.InputTileH <= 0 {
			panic("--line-width needs --input-tile-w & --input-tile-h")
		}
		in = removeLines(in, cli.InputTileW, cli.InputTileH, cli.LineWidth)
	}

	// resize to fit our desired tile width/height (to closest multiple)
	in = sizeToTiles(in, cli.TileWidth, cli.TileHeight)

	// figure out how many tiles we've got
	width := in.Bounds().Dx() / cli.TileWidth
	height := in.Bounds().Dy() / cli.TileHeight
	count := width * height

	props := parseProps()
	classes := parseClasses(count)

	fmt.Printf("read (%d,%d)->(%d,%d) from %s ", cli.X0, cli.Y0, X1, Y1, cli.Input)
	fmt.Printf("resize to %dx%d (tiles), making %d new tiles.\n", width, height, count)
	fmt.Printf("tileset properties: %v, tile classes: %v\n", props.List(), classes)

	if cli.DryRun {
		fmt.Println("dry-run detected: doing nothing")
		return
	}

	ts := &tileworld.TilesetDoc{
		Name:       cli.Name,
		TileWidth:  cli.TileWidth,
		TileHeight: cli.TileHeight,
		TileCount:  count,
		Columns:    width,
		Properties: props.List(),
	}

	tiles := map[uint32]*tileworld.TileDoc{}
	tile := func(id uint32) *tileworld.TileDoc {
		t, ok := tiles[id]
		if !ok {
			t = &tileworld.TileDoc{ID: id}
			tiles[id] = t
		}
		return t
	}
	for id, class := range classes {
		tile(id).Class = class
	}

	if cli.Split {
		ts.Columns = 0
		for y := 0; y < height; y++ { // for each tile row
			for x := 0; x < width; x++ { // for each tile column
				r := image.Rect(x*cli.TileWidth, y*cli.TileHeight, (x+1)*cli.TileWidth, (y+1)*cli.TileHeight)
				fname := fmt.Sprintf("%s.%d.%d.png", cli.Name, x, y)

				err = savePng(fname, cutOut(in, r.Add(in.Bounds().Min)))
				if err != nil {
					panic(err)
				}

				tile(uint32(y*width + x)).Image = &tileworld.Image{Source: fname, Width: cli.TileWidth, Height: cli.TileHeight}
			}
		}
	} else {
		fname := fmt.Sprintf("%s.png", cli.Name)
		err = savePng(fname, in)
		if err != nil {
			panic(err)
		}
		ts.Image = &tileworld.Image{Source: fname, Width: in.Bounds().Dx(), Height: in.Bounds().Dy()}
	}

	for _, t := range tiles {
		ts.Tiles = append(ts.Tiles, t)
	}
	sort.Slice(ts.Tiles, func(i, j int) bool { return ts.Tiles[i].ID < ts.Tiles[j].ID })

	// finally, output the tileset
	out := fmt.Sprintf("%s.tsx", cli.Name)
	if fileExists(out) && !cli.Overwrite {
		fmt.Printf("skipping %s exists\n", out)
		return
	}
	buff := new(bytes.Buffer)
	err = tileworld.EncodeTileset(buff, ts)
	if err != nil {
		panic(err)
	}
	err = ioutil.WriteFile(out, buff.Bytes(), 0644)
	if err != nil {
		panic(err)
	}
	fmt.Printf("wrote %s\n", out)
}
