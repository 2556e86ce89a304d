// Package zone implements the fixed-size square grid that is the unit of
// spatial locality in a World: a room, a hallway, an entire floor.
//
// Zones carry no display or pointer state that could make them unsafe to
// share — they are plain game data, read by the FOV engine and mutated
// only by the owning World.
package zone

import (
	"fmt"

	"github.com/tilecaster/zonefov/internal/ids"
	"github.com/tilecaster/zonefov/internal/tile"
)

// LocalCoord is a non-negative (x, y) position inside a single Zone.
type LocalCoord struct {
	X, Y int
}

// Index returns the row-major offset of coord within a zone of the given
// size: x + y*size.
func Index(coord LocalCoord, size int) int {
	return coord.X + coord.Y*size
}

// Zone is a fixed-size square grid of tiles, identified by a stable id.
type Zone[P tile.Payload] struct {
	ID   ids.ZoneID
	Size int

	tiles    []tile.Tile[P]
	portalAt map[ids.PortalID]LocalCoord
	entityAt map[uint64]LocalCoord
}

// New creates a Zone of size x size tiles, all passable and initialized to
// the stub payload, then hands a mutable reference to initFn so the caller can
// populate it. size must be >= 1.
func New[P tile.Payload](size int, stub P, initFn func(z *Zone[P])) (*Zone[P], error) {
	if size < 1 {
		return nil, fmt.Errorf("zone: size must be >= 1, got %d", size)
	}
	z := &Zone[P]{
		ID:       ids.NewZoneID(),
		Size:     size,
		tiles:    make([]tile.Tile[P], size*size),
		portalAt: make(map[ids.PortalID]LocalCoord),
		entityAt: make(map[uint64]LocalCoord),
	}
	for i := range z.tiles {
		z.tiles[i] = tile.Tile[P]{Passable: true, Payload: stub}
	}
	if initFn != nil {
		initFn(z)
	}
	return z, nil
}

// InBounds reports whether coord lies within [0, Size) on both axes.
func (z *Zone[P]) InBounds(coord LocalCoord) bool {
	return coord.X >= 0 && coord.Y >= 0 && coord.X < z.Size && coord.Y < z.Size
}

// TileAt returns the tile at coord. Panics if coord is out of bounds — a
// programming error, since every caller must check InBounds first (the
// FOV sweep instead substitutes a stub tile for any out-of-bounds peek,
// see internal/fov).
func (z *Zone[P]) TileAt(coord LocalCoord) tile.Tile[P] {
	if !z.InBounds(coord) {
		panic(fmt.Sprintf("zone %s: TileAt coord %+v out of bounds (size %d)", z.ID, coord, z.Size))
	}
	return z.tiles[Index(coord, z.Size)]
}

// TileAtIndex returns the tile at a precomputed row-major index.
func (z *Zone[P]) TileAtIndex(idx int) tile.Tile[P] {
	return z.tiles[idx]
}

// SetTile replaces the tile at coord.
func (z *Zone[P]) SetTile(coord LocalCoord, t tile.Tile[P]) {
	z.tiles[Index(coord, z.Size)] = t
}

// AddPortal records that the tile at coord carries portal pid, both on the
// tile itself and in the zone's portal-coordinate index. Fails if coord is
// out of bounds or pid was already added to this zone.
func (z *Zone[P]) AddPortal(pid ids.PortalID, coord LocalCoord) error {
	if !z.InBounds(coord) {
		return fmt.Errorf("zone %s: AddPortal coord %+v out of bounds (size %d)", z.ID, coord, z.Size)
	}
	if _, exists := z.portalAt[pid]; exists {
		return fmt.Errorf("zone %s: portal %s already added to this zone", z.ID, pid)
	}
	idx := Index(coord, z.Size)
	t := z.tiles[idx]
	p := pid
	t.Portal = &p
	z.tiles[idx] = t
	z.portalAt[pid] = coord
	return nil
}

// PortalCoords returns the local coordinates of portal pid within this
// zone, and whether it was found.
func (z *Zone[P]) PortalCoords(pid ids.PortalID) (LocalCoord, bool) {
	c, ok := z.portalAt[pid]
	return c, ok
}

// PlaceEntity records an external entity id's position within this zone.
// This is the optional entity-id -> local-coords mapping the data model
// allows zones to maintain; the FOV engine never reads
// it, it exists purely so callers (e.g. a demo server placing avatars) can
// ask a zone "who's where" without layering a full entity store on top.
func (z *Zone[P]) PlaceEntity(entityID uint64, coord LocalCoord) {
	z.entityAt[entityID] = coord
}

// EntityCoords returns the recorded coordinates for entityID, if any.
func (z *Zone[P]) EntityCoords(entityID uint64) (LocalCoord, bool) {
	c, ok := z.entityAt[entityID]
	return c, ok
}

// RemoveEntity forgets entityID's recorded position.
func (z *Zone[P]) RemoveEntity(entityID uint64) {
	delete(z.entityAt, entityID)
}
