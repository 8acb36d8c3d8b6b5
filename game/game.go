// Package game wires the importer, world, inventory & placement engine
// together and owns the step loop they are driven from.
package game

import (
	"fmt"
	"log"
	"os"

	"github.com/voidshard/tileworld"
	"github.com/voidshard/tileworld/event"
	"github.com/voidshard/tileworld/inventory"
	"github.com/voidshard/tileworld/place"
	"github.com/voidshard/tileworld/world"
)

// Game holds all of the play state. Nothing in here is safe for concurrent
// use; everything happens inside Load & Step.
type Game struct {
	World     *world.World
	Inventory *inventory.Inventory
	Engine    *place.Engine
	Events    *event.Queue

	cfg          *tileworld.Config
	importer     *tileworld.Importer
	materializer *world.Materializer
	watcher      *Watcher
	log          *log.Logger

	path string
}

// New returns a game with an empty world & an inventory seeded from
// `cfg`. A nil config uses tileworld.DefaultConfig().
func New(cfg *tileworld.Config, reader tileworld.ResourceReader, loader tileworld.AssetLoader, camera place.Camera) (*Game, error) {
	if cfg == nil {
		cfg = tileworld.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	q := event.NewQueue()
	inv, err := inventory.FromConfig(cfg.Inventory, q)
	if err != nil {
		return nil, err
	}

	w := world.New()
	g := &Game{
		World:        w,
		Inventory:    inv,
		Engine:       place.New(cfg, w, inv, camera, q),
		Events:       q,
		cfg:          cfg,
		importer:     tileworld.NewImporter(cfg, reader),
		materializer: world.NewMaterializer(cfg, loader),
	}
	g.SetLogger(log.New(os.Stderr, "game: ", log.LstdFlags))
	return g, nil
}

// SetLogger sets the logger for the game & everything it drives.
func (g *Game) SetLogger(l *log.Logger) {
	g.log = l
	g.importer.SetLogger(l)
	g.materializer.SetLogger(l)
	g.Engine.SetLogger(l)
}

// Path returns the path of the last map we tried to load.
func (g *Game) Path() string {
	return g.path
}

// Load imports the map at `path` (read through the game's reader) and
// materializes it, replacing whatever world we had. Any drag in progress
// is dropped.
//
// On failure the world is left empty & a MapLoadFailed event is queued.
func (g *Game) Load(path string) error {
	g.path = path
	g.Engine.Reset()

	wm, err := g.importer.Open(path)
	if err == nil {
		err = g.materializer.Materialize(g.World, wm)
	}
	if err != nil {
		g.World.Clear()
		g.log.Printf("failed to load %s: %v", path, err)
		g.Events.Emit(event.MapLoadFailed, event.LoadFailed{Path: path, Err: err})
		return err
	}

	g.Events.Emit(event.MapLoaded, event.Loaded{Path: path, Entities: g.World.EntityCount()})
	if g.cfg.Debug {
		g.log.Printf("loaded %s: %d entities", path, g.World.EntityCount())
	}
	return nil
}

// Watch reloads the current map whenever a map, tileset or image in one of
// `dirs` changes. Reloads happen inside Step.
func (g *Game) Watch(dirs ...string) error {
	if g.watcher != nil {
		return fmt.Errorf("game: already watching")
	}
	w, err := NewWatcher(dirs...)
	if err != nil {
		return err
	}
	g.watcher = w
	return nil
}

// Step either reloads the map, if anything changed on disk, or applies the
// drag input. A step that reloads discards its drag input, since the reload
// already dropped any drag in progress. A failed reload is reported through
// events, not returned.
func (g *Game) Step(in place.StepInput) error {
	if g.pollReload() && g.path != "" {
		g.Load(g.path)
		return nil
	}
	return g.Engine.Step(in)
}

// pollReload drains the watcher without blocking & reports if anything
// changed.
func (g *Game) pollReload() bool {
	if g.watcher == nil {
		return false
	}

	changed := false
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return changed
			}
			if g.cfg.Debug {
				g.log.Printf("%s changed", name)
			}
			changed = true
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.log.Printf("watcher: %v", err)
			}
		default:
			return changed
		}
	}
}

// Close stops watching for changes.
func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	err := g.watcher.Close()
	g.watcher = nil
	return err
}
