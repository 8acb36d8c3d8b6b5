package main

import (
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/voidshard/tileworld"
	"github.com/voidshard/tileworld/world"
)

const desc = `Checks .tmx maps can be imported & materialized by the game.

Each map is imported with the same rules the game uses, then materialized into
a throwaway world. Problems are reported with the layer / object / tileset /
property they were found in. Exits non-zero if any map fails.

Optionally writes a normalized copy of a map (embedded tilesets, csv data) with
extra map properties set.`

var cli struct {
	Input []string `arg:"" help:"input .tmx map(s)"`

	Config  string `short:"c" help:"yaml config file"`
	Archive string `short:"a" help:"read maps & tilesets from this asset archive instead of disk"`
	Debug   bool   `short:"d" help:"log what the importer & materializer are doing"`

	Output string            `short:"o" help:"write a normalized copy of the (single) input map here"`
	Props  map[string]string `short:"p" help:"set props on the normalized map"`

	Objects bool `help:"list every object found"`
}

func main() {
	kong.Parse(&cli, kong.Name("tmx-check"), kong.Description(desc))

	cfg := tileworld.DefaultConfig()
	if cli.Config != "" {
		var err error
		cfg, err = tileworld.LoadConfig(cli.Config)
		if err != nil {
			panic(err)
		}
	}
	cfg.Debug = cfg.Debug || cli.Debug

	if cli.Output != "" && len(cli.Input) != 1 {
		panic("--output needs exactly one input map")
	}

	logger := log.New(ioutil.Discard, "", 0)
	if cfg.Debug {
		logger = log.New(os.Stderr, "tmx-check: ", log.LstdFlags)
	}

	failed := 0
	for _, in := range cli.Input {
		wm, err := check(cfg, logger, in)
		if err != nil {
			failed++
			fmt.Printf("FAIL %s\n  %v\n", in, err)
			continue
		}

		if cli.Output != "" {
			if wm.Properties == nil {
				wm.Properties = tileworld.NewProperties()
			}
			wm.Properties.Merge(parseProps())
			err = wm.WriteFile(cli.Output)
			if err != nil {
				panic(err)
			}
			fmt.Printf("wrote %s\n", cli.Output)
		}
	}

	if failed > 0 {
		fmt.Printf("%d of %d maps failed\n", failed, len(cli.Input))
		os.Exit(1)
	}
}

// check imports & materializes one map, printing a short report
func check(cfg *tileworld.Config, logger *log.Logger, in string) (*tileworld.WorldMap, error) {
	reader, path, err := openReader(in)
	if err != nil {
		return nil, err
	}
	if c, ok := reader.(interface{ Close() error }); ok {
		defer c.Close()
	}

	importer := tileworld.NewImporter(cfg, reader)
	importer.SetLogger(logger)

	wm, err := importer.Open(path)
	if err != nil {
		return nil, describe(err)
	}

	w := world.New()
	m := world.NewMaterializer(cfg, nil)
	m.SetLogger(logger)

	err = m.Materialize(w, wm)
	if err != nil {
		return nil, err
	}

	fmt.Printf("OK   %s: %dx%d, %d layers, %d tilesets, %d entities\n",
		in, wm.Width, wm.Height, len(wm.Layers), len(wm.Tilesets), w.EntityCount())

	if cli.Objects {
		for _, o := range w.Objects() {
			fmt.Printf("  layer %d %s object %d %q: %v\n", o.Layer, o.Cell, o.ID, o.Name, o.Record)
		}
	}
	return wm, nil
}

func openReader(in string) (tileworld.ResourceReader, string, error) {
	if cli.Archive != "" {
		a, err := tileworld.OpenArchive(cli.Archive)
		return a, in, err
	}
	r, err := tileworld.NewDirReader(filepath.Dir(in))
	return r, filepath.Base(in), err
}

// describe adds a hint for the errors map authors hit most
func describe(err error) error {
	switch {
	case errors.Is(err, tileworld.ErrMapSize):
		return fmt.Errorf("%w (hint: see min_map_width & min_map_height in the config)", err)
	case errors.Is(err, tileworld.ErrTileFlip):
		return fmt.Errorf("%w (hint: rotated & flipped tiles aren't supported)", err)
	case errors.Is(err, tileworld.ErrTextureMode):
		return fmt.Errorf("%w (hint: check texture_mode in the config)", err)
	}
	return err
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
