package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mitchellh/go-homedir"

	"github.com/voidshard/tileworld"
)

const desc = `Packs maps, tilesets & images into a single sqlite asset archive.

Files are stored under their slash separated path relative to the input
directory, so maps can reference their tilesets & images exactly as they do on
disk. The game & the other tools can read from an archive with --archive.`

var cli struct {
	Input  string `short:"i" help:"directory of assets to pack"`
	Output string `short:"o" required:"" help:"archive file to write (or read with --list)"`

	// add to an existing archive rather than starting a new one
	Append bool `help:"add to the archive rather than replacing it"`

	// only pack these file extensions
	Ext []string `default:".tmx,.tsx,.png" help:"file extensions to pack"`

	List bool `short:"l" help:"list what is in the archive & exit"`
}

func main() {
	kong.Parse(&cli, kong.Name("asset-pack"), kong.Description(desc))

	out, err := homedir.Expand(cli.Output)
	if err != nil {
		panic(err)
	}

	if cli.List {
		list(out)
		return
	}

	if cli.Input == "" {
		panic("--input is required")
	}
	root, err := homedir.Expand(cli.Input)
	if err != nil {
		panic(err)
	}

	var a *tileworld.ArchiveReader
	if cli.Append {
		a, err = tileworld.OpenArchive(out)
	} else {
		a, err = tileworld.NewArchive(out)
	}
	if err != nil {
		panic(err)
	}
	defer a.Close()

	packed := 0
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !wanted(path) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		err = a.PutReader(filepath.ToSlash(rel), f)
		if err != nil {
			return fmt.Errorf("pack %s: %w", rel, err)
		}
		packed++
		return nil
	})
	if err != nil {
		panic(err)
	}

	fmt.Printf("packed %d files into %s\n", packed, out)
}

func wanted(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range cli.Ext {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

func list(fname string) {
	a, err := tileworld.OpenArchive(fname)
	if err != nil {
		panic(err)
	}
	defer a.Close()

	paths, err := a.Paths()
	if err != nil {
		panic(err)
	}
	for _, p := range paths {
		mod, err := a.Modified(p)
		if err != nil {
			panic(err)
		}
		fmt.Printf("%s\t%s\n", mod.Format("2006-01-02 15:04:05"), p)
	}
}
