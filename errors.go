package tileworld

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDocument        = errors.New("malformed document")
	ErrTilesetSource   = errors.New("unable to read tileset")
	ErrProjection      = errors.New("projection must be orthogonal")
	ErrInfinite        = errors.New("infinite maps are not supported")
	ErrMapSize         = errors.New("map is below the minimum size")
	ErrLayerSize       = errors.New("layer size does not match map size")
	ErrTileSize        = errors.New("invalid tile size")
	ErrTilesetSpacing  = errors.New("invalid tile spacing")
	ErrTilesetName     = errors.New("invalid tileset name")
	ErrTextureMode     = errors.New("tileset image layout not supported by texture mode")
	ErrLayerKind       = errors.New("only tile and object layers are supported")
	ErrLayerOffset     = errors.New("layer has invalid offset")
	ErrEncoding        = errors.New("invalid tile data")
	ErrUnknownTile     = errors.New("tile does not belong to any tileset")
	ErrTileFlip        = errors.New("unsupported tile flip")
	ErrObjectRotation  = errors.New("rotated objects are not supported")
	ErrObjectShape     = errors.New("unsupported object shape")
	ErrUnknownClass    = errors.New("unknown object class")
	ErrMissingProperty = errors.New("missing property")
	ErrInvalidProperty = errors.New("invalid property")
)

// ImportError is returned for any document that fails to import.
// Zero valued fields were not relevant to the failure.
type ImportError struct {
	Map      string
	Layer    uint32
	Tileset  string
	Object   uint32
	Property string
	Err      error
}

func (e *ImportError) Error() string {
	parts := []string{fmt.Sprintf("import %s", e.Map)}
	if e.Tileset != "" {
		parts = append(parts, fmt.Sprintf("tileset %q", e.Tileset))
	}
	if e.Layer != 0 {
		parts = append(parts, fmt.Sprintf("layer %d", e.Layer))
	}
	if e.Object != 0 {
		parts = append(parts, fmt.Sprintf("object %d", e.Object))
	}
	if e.Property != "" {
		parts = append(parts, fmt.Sprintf("property %q", e.Property))
	}
	parts = append(parts, e.Err.Error())
	return strings.Join(parts, ": ")
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// propertyError reports a required property problem before we know which
// layer / map it belongs to; the importer copies it into an ImportError.
type propertyError struct {
	name string
	err  error
}

func (e *propertyError) Error() string {
	return fmt.Sprintf("property %q: %v", e.name, e.err)
}

func (e *propertyError) Unwrap() error {
	return e.err
}
