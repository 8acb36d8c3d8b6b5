package main

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/voidshard/tileworld"
	"github.com/voidshard/tileworld/world"
)

const desc = `Renders a preview PNG of a .tmx map as the game materializes it.

Tiles are drawn from their tileset images where those can be read, otherwise as
a flat colour per tile id. Objects are outlined & labelled with their record.`

var cli struct {
	Input  string `arg:"" help:"input .tmx map"`
	Output string `short:"o" help:"where to write the .png. Defaults to input + .png"`

	Config  string `short:"c" help:"yaml config file"`
	Archive string `short:"a" help:"read the map & its assets from this asset archive instead of disk"`

	Scale    float64 `default:"1" help:"scale the output by this"`
	NoLabels bool    `help:"don't label objects"`
	Grid     bool    `help:"draw cell borders"`
}

// imageLoader decodes images through a resource reader. Handles are
// indexes into images, plus one.
type imageLoader struct {
	reader tileworld.ResourceReader
	images []image.Image
}

func (l *imageLoader) Load(path string) tileworld.Handle {
	var im image.Image

	f, err := l.reader.ReadFrom(path)
	if err == nil {
		im, _, err = image.Decode(f)
		f.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %s: %v\n", path, err)
	}

	l.images = append(l.images, im)
	return tileworld.Handle(len(l.images))
}

func (l *imageLoader) image(h tileworld.Handle) image.Image {
	if h == 0 || int(h) > len(l.images) {
		return nil
	}
	return l.images[h-1]
}

func main() {
	kong.Parse(&cli, kong.Name("map-render"), kong.Description(desc))

	if cli.Output == "" {
		cli.Output = fmt.Sprintf("%s.png", cli.Input)
	}

	cfg := tileworld.DefaultConfig()
	if cli.Config != "" {
		var err error
		cfg, err = tileworld.LoadConfig(cli.Config)
		if err != nil {
			panic(err)
		}
	}

	reader, mapPath := openReader()
	loader := &imageLoader{reader: reader}

	wm, err := tileworld.NewImporter(cfg, reader).Open(mapPath)
	if err != nil {
		panic(err)
	}

	w := world.New()
	err = world.NewMaterializer(cfg, loader).Materialize(w, wm)
	if err != nil {
		panic(err)
	}

	dc := render(w, wm, loader)
	err = dc.SavePNG(cli.Output)
	if err != nil {
		panic(err)
	}

	fmt.Printf("wrote %s (%d entities)\n", cli.Output, w.EntityCount())
}

// openReader returns where to read from & the map path as that reader sees it
func openReader() (tileworld.ResourceReader, string) {
	if cli.Archive != "" {
		a, err := tileworld.OpenArchive(cli.Archive)
		if err != nil {
			panic(err)
		}
		return a, cli.Input
	}

	r, err := tileworld.NewDirReader(filepath.Dir(cli.Input))
	if err != nil {
		panic(err)
	}
	return r, filepath.Base(cli.Input)
}

func render(w *world.World, wm *tileworld.WorldMap, loader *imageLoader) *gg.Context {
	tw, th := float64(wm.TileWidth), float64(wm.TileHeight)
	dc := gg.NewContext(int(float64(wm.Width)*tw*cli.Scale), int(float64(wm.Height)*th*cli.Scale))
	dc.Scale(cli.Scale, cli.Scale)
	dc.SetColor(color.Black)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	// world rows count up from the bottom, the image counts down from the top
	topLeft := func(c world.Cell) (float64, float64) {
		return float64(c.X) * tw, float64(wm.Height-1-c.Y) * th
	}

	for _, l := range w.Layers().All() {
		if !l.Visible {
			continue
		}
		for _, c := range l.Grid.Cells() {
			e, _ := l.Grid.Get(c)
			x, y := topLeft(c)

			switch l.Kind {
			case world.TileLayerKind:
				t, ok := w.Tile(e)
				if ok {
					drawSprite(dc, wm, loader, t.Sprite, x, y)
				}
			case world.ObjectLayerKind:
				o, ok := w.Object(e)
				if !ok || !o.Visible {
					continue
				}
				drawSprite(dc, wm, loader, o.Sprite, x, y)

				dc.SetRGBA(1, 1, 0, 0.8)
				dc.SetLineWidth(2)
				dc.DrawRectangle(x+1, y+1, tw-2, th-2)
				dc.Stroke()

				if !cli.NoLabels {
					dc.SetRGB(1, 1, 1)
					dc.DrawStringAnchored(label(o), x+tw/2, y-2, 0.5, 0)
				}
			}
		}
	}

	if cli.Grid {
		dc.SetRGBA(1, 1, 1, 0.2)
		dc.SetLineWidth(1)
		for x := 0; x <= wm.Width; x++ {
			dc.DrawLine(float64(x)*tw, 0, float64(x)*tw, float64(wm.Height)*th)
		}
		for y := 0; y <= wm.Height; y++ {
			dc.DrawLine(0, float64(y)*th, float64(wm.Width)*tw, float64(y)*th)
		}
		dc.Stroke()
	}

	return dc
}

// drawSprite draws the tile image of `s` with its top left at x,y
func drawSprite(dc *gg.Context, wm *tileworld.WorldMap, loader *imageLoader, s world.Sprite, x, y float64) {
	src := loader.image(s.Texture)
	ts := wm.Tilesets[s.Tile.Tileset]

	if src == nil || ts == nil {
		dc.SetColor(tileColour(s.Tile.TileID))
		dc.DrawRectangle(x, y, float64(wm.TileWidth), float64(wm.TileHeight))
		dc.Fill()
		return
	}

	if ts.IsCollection() {
		dc.DrawImage(src, int(x), int(y))
		return
	}

	cols := ts.Columns
	if cols <= 0 {
		cols = 1
	}
	sx := ts.Margin + int(s.Index)%cols*ts.TileWidth
	sy := ts.Margin + int(s.Index)/cols*ts.TileHeight
	r := image.Rect(sx, sy, sx+ts.TileWidth, sy+ts.TileHeight).Add(src.Bounds().Min)

	sub, ok := src.(interface {
		SubImage(r image.Rectangle) image.Image
	})
	if !ok {
		dc.DrawImage(src, int(x), int(y))
		return
	}
	// gg draws in source image coordinates, so undo the sub image offset
	dc.DrawImage(sub.SubImage(r), int(x)-r.Min.X, int(y)-r.Min.Y)
}

func label(o *world.ObjectComponent) string {
	if d, ok := o.Record.(*tileworld.ResourceDeposit); ok {
		return fmt.Sprintf("%s %d", d.Resource, d.Amount)
	}
	if o.Name != "" {
		return o.Name
	}
	return fmt.Sprintf("#%d", o.ID)
}

// tileColour picks a stable colour for a tile id
func tileColour(id uint32) color.Color {
	h := id*2654435761 + 1
	return color.NRGBA{R: uint8(h >> 24), G: uint8(h >> 16), B: uint8(h >> 8), A: 255}
}
