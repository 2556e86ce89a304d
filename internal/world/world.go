// Package world owns all zones and portals, resolves portal endpoints by
// id, and implements single-step traversal (spec.md §4.2).
//
// A World exclusively owns its Zones and Portals; cross-references
// between them go through id lookups on the World rather than raw back
// pointers, so there are no cyclic pointers between zone and portal.
package world

import (
	"errors"
	"fmt"

	"github.com/tilecaster/zonefov/internal/direction"
	"github.com/tilecaster/zonefov/internal/ids"
	"github.com/tilecaster/zonefov/internal/portal"
	"github.com/tilecaster/zonefov/internal/tile"
	"github.com/tilecaster/zonefov/internal/zone"
)

// ErrUnknownZone is returned when a ZoneID has no registered zone.
var ErrUnknownZone = errors.New("world: unknown zone id")

// ErrUnknownPortal is returned when a PortalID has no registered portal.
var ErrUnknownPortal = errors.New("world: unknown portal id")

// ErrInvalidDirection is returned by TryTraversal when dir is
// direction.None.
var ErrInvalidDirection = errors.New("world: direction.None is not valid for traversal")

// GlobalOffset is a signed 2D vector relative to an FOV query's original
// focus, preserved across portal crossings so every visible tile shares
// one coordinate frame.
type GlobalOffset struct {
	X, Y int
}

// GlobalCoord names an absolute position: a zone id plus local coords
// inside it.
type GlobalCoord struct {
	Zone  ids.ZoneID
	Local zone.LocalCoord
}

// RelativeCoord is a tile's position expressed relative to an FOV query's
// focus: its zone, its local coords within that zone, and the global
// offset carried across any portal crossings. Equality is structural on
// all five scalars.
type RelativeCoord struct {
	Zone   ids.ZoneID
	Local  zone.LocalCoord
	Global GlobalOffset
}

// World owns every Zone and Portal in a coordinate space, keyed by id.
type World[P tile.Payload] struct {
	zones   map[ids.ZoneID]*zone.Zone[P]
	portals map[ids.PortalID]*portal.Portal
}

// New creates an empty World.
func New[P tile.Payload]() *World[P] {
	return &World[P]{
		zones:   make(map[ids.ZoneID]*zone.Zone[P]),
		portals: make(map[ids.PortalID]*portal.Portal),
	}
}

// NewZone builds a size x size zone, filled with the stub payload, hands
// initFn a mutable reference to populate it, registers the zone in the
// world and returns its fresh id.
func (w *World[P]) NewZone(size int, stub P, initFn func(z *zone.Zone[P])) (ids.ZoneID, error) {
	z, err := zone.New(size, stub, initFn)
	if err != nil {
		return ids.ZoneID{}, err
	}
	w.zones[z.ID] = z
	return z.ID, nil
}

// NewPortal links (zoneA, localA, exitA) to (zoneB, localB, exitB). The
// two exit directions must be opposite, and both local coordinates must
// be in bounds of their respective zones.
func (w *World[P]) NewPortal(
	zoneA ids.ZoneID, localA zone.LocalCoord, exitA direction.Direction,
	zoneB ids.ZoneID, localB zone.LocalCoord, exitB direction.Direction,
) (ids.PortalID, error) {
	za, err := w.GetZone(zoneA)
	if err != nil {
		return ids.PortalID{}, err
	}
	zb, err := w.GetZone(zoneB)
	if err != nil {
		return ids.PortalID{}, err
	}
	p, err := portal.New(zoneA, exitA, zoneB, exitB)
	if err != nil {
		return ids.PortalID{}, err
	}
	if err := za.AddPortal(p.ID, localA); err != nil {
		return ids.PortalID{}, err
	}
	if err := zb.AddPortal(p.ID, localB); err != nil {
		return ids.PortalID{}, err
	}
	w.portals[p.ID] = p
	return p.ID, nil
}

// GetZone returns the zone registered under id.
func (w *World[P]) GetZone(id ids.ZoneID) (*zone.Zone[P], error) {
	z, ok := w.zones[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownZone, id)
	}
	return z, nil
}

// GetPortal returns the portal registered under id.
func (w *World[P]) GetPortal(id ids.PortalID) (*portal.Portal, error) {
	p, ok := w.portals[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPortal, id)
	}
	return p, nil
}

// ZoneIDs returns every registered zone id, in no particular order.
func (w *World[P]) ZoneIDs() []ids.ZoneID {
	out := make([]ids.ZoneID, 0, len(w.zones))
	for id := range w.zones {
		out = append(out, id)
	}
	return out
}

// PortalIDs returns every registered portal id, in no particular order.
func (w *World[P]) PortalIDs() []ids.PortalID {
	out := make([]ids.PortalID, 0, len(w.portals))
	for id := range w.portals {
		out = append(out, id)
	}
	return out
}

// TraversalResult is the outcome of TryTraversal.
type TraversalResult struct {
	// Kind reports which of the three outcomes this is.
	Kind TraversalKind
	// Dest is valid only when Kind == TraversalDestination.
	Dest GlobalCoord
}

// TraversalKind enumerates the possible outcomes of a single traversal
// step (spec.md §4.2).
type TraversalKind uint8

const (
	TraversalDestination TraversalKind = iota
	TraversalBlocked
	TraversalOutsideBounds
)

// TryTraversal attempts to move src one step in dir, following a portal if
// the source tile carries one whose exit direction matches dir.
func (w *World[P]) TryTraversal(src GlobalCoord, dir direction.Direction) (TraversalResult, error) {
	if dir == direction.None {
		return TraversalResult{}, ErrInvalidDirection
	}
	srcZone, err := w.GetZone(src.Zone)
	if err != nil {
		return TraversalResult{}, err
	}
	if !srcZone.InBounds(src.Local) {
		return TraversalResult{}, fmt.Errorf("world: TryTraversal src %+v out of bounds of zone %s", src.Local, src.Zone)
	}

	destZoneID := src.Zone
	destLocal := src.Local
	srcTile := srcZone.TileAt(src.Local)
	if pid, ok := srcTile.HasPortal(); ok {
		p, err := w.GetPortal(pid)
		if err != nil {
			return TraversalResult{}, err
		}
		_, exitDir, err := p.InfoFrom(src.Zone)
		if err != nil {
			return TraversalResult{}, err
		}
		if exitDir == dir {
			otherZoneID, _, err := p.InfoFrom(src.Zone)
			if err != nil {
				return TraversalResult{}, err
			}
			otherZone, err := w.GetZone(otherZoneID)
			if err != nil {
				return TraversalResult{}, err
			}
			portalCoord, ok := otherZone.PortalCoords(pid)
			if !ok {
				return TraversalResult{}, fmt.Errorf("world: portal %s not registered in partner zone %s", pid, otherZoneID)
			}
			ddx, ddy := dir.Unit()
			destZoneID = otherZoneID
			destLocal = zone.LocalCoord{X: portalCoord.X + ddx, Y: portalCoord.Y + ddy}
		} else {
			ddx, ddy := dir.Unit()
			destLocal = zone.LocalCoord{X: src.Local.X + ddx, Y: src.Local.Y + ddy}
		}
	} else {
		ddx, ddy := dir.Unit()
		destLocal = zone.LocalCoord{X: src.Local.X + ddx, Y: src.Local.Y + ddy}
	}

	destZone, err := w.GetZone(destZoneID)
	if err != nil {
		return TraversalResult{}, err
	}
	if !destZone.InBounds(destLocal) {
		return TraversalResult{Kind: TraversalOutsideBounds}, nil
	}
	destTile := destZone.TileAt(destLocal)
	if !destTile.Passable {
		return TraversalResult{Kind: TraversalBlocked}, nil
	}
	return TraversalResult{
		Kind: TraversalDestination,
		Dest: GlobalCoord{Zone: destZoneID, Local: destLocal},
	}, nil
}
