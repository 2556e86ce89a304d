// Package tile defines the grid cell every Zone is built from.
package tile

import (
	"github.com/tilecaster/zonefov/internal/fovclass"
	"github.com/tilecaster/zonefov/internal/ids"
)

// Payload is the capability a client's per-tile data must expose. Zones are
// generic over any Payload implementation — see New in the zone
// package for the stub payload new tiles start out with.
type Payload interface {
	FovClass() fovclass.FovClass
}

// Tile is one grid cell. Passable gates traversal only; the FOV engine
// reads the payload's FovClass instead and never consults Passable.
type Tile[P Payload] struct {
	Passable bool
	Payload  P
	Portal   *ids.PortalID
}

// HasPortal reports whether this tile carries a portal, and returns its id.
func (t Tile[P]) HasPortal() (ids.PortalID, bool) {
	if t.Portal == nil {
		var zero ids.PortalID
		return zero, false
	}
	return *t.Portal, true
}
