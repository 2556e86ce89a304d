// Package worlddef loads a World from a TOML world-definition file and
// provides the builtin tile payload (floor vs. wall) such a file
// describes.
//
// The load/decode shape mirrors the whitelist loader pattern used
// elsewhere in this codebase's ancestry: a plain tagged struct decoded
// with pelletier/go-toml, wrapped errors on every I/O or decode failure.
package worlddef

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml"

	"github.com/tilecaster/zonefov/internal/direction"
	"github.com/tilecaster/zonefov/internal/fovclass"
	"github.com/tilecaster/zonefov/internal/ids"
	"github.com/tilecaster/zonefov/internal/tile"
	"github.com/tilecaster/zonefov/internal/world"
	"github.com/tilecaster/zonefov/internal/zone"
)

// TileKind is the payload every zone built from a Document carries: a
// tile is either open Floor or a sight-Blocking Wall.
type TileKind fovclass.FovClass

// FovClass implements tile.Payload.
func (k TileKind) FovClass() fovclass.FovClass { return fovclass.FovClass(k) }

const (
	Floor TileKind = TileKind(fovclass.Transparent)
	Wall  TileKind = TileKind(fovclass.Blocking)
)

// Document is the decoded contents of a world-definition file: a flat
// list of named zones and the portals linking them.
type Document struct {
	Zones   []ZoneDef   `toml:"zone"`
	Portals []PortalDef `toml:"portal"`
}

// ZoneDef describes one square zone and its wall tiles; every tile not
// listed as a wall defaults to Floor.
type ZoneDef struct {
	Name  string    `toml:"name"`
	Size  int       `toml:"size"`
	Walls []WallDef `toml:"wall"`
}

// WallDef marks a single local coordinate as Blocking.
type WallDef struct {
	X int `toml:"x"`
	Y int `toml:"y"`
}

// PortalDef links coordinate (XA, YA) in zone ZoneA to (XB, YB) in zone
// ZoneB, exiting in the given direction on each side.
type PortalDef struct {
	ZoneA string `toml:"zone_a"`
	XA    int    `toml:"x_a"`
	YA    int    `toml:"y_a"`
	ExitA string `toml:"exit_a"`
	ZoneB string `toml:"zone_b"`
	XB    int    `toml:"x_b"`
	YB    int    `toml:"y_b"`
	ExitB string `toml:"exit_b"`
}

// Load reads and decodes a world-definition file.
func Load(path string) (*Document, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("worlddef: read %s: %w", path, err)
	}
	var doc Document
	if err := toml.Unmarshal(contents, &doc); err != nil {
		return nil, fmt.Errorf("worlddef: decode %s: %w", path, err)
	}
	return &doc, nil
}

// ParseDirection maps a world-definition exit string to a direction.Direction.
func ParseDirection(s string) (direction.Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "north":
		return direction.North, nil
	case "east":
		return direction.East, nil
	case "south":
		return direction.South, nil
	case "west":
		return direction.West, nil
	default:
		return direction.None, fmt.Errorf("worlddef: unknown direction %q", s)
	}
}

// Build constructs a World from a decoded Document, returning the World and
// a lookup from each zone's declared Name to its freshly minted ZoneID.
func Build(doc *Document) (*world.World[TileKind], map[string]ids.ZoneID, error) {
	w := world.New[TileKind]()
	byName := make(map[string]ids.ZoneID, len(doc.Zones))

	for _, zd := range doc.Zones {
		if zd.Name == "" {
			return nil, nil, fmt.Errorf("worlddef: zone missing a name")
		}
		if _, dup := byName[zd.Name]; dup {
			return nil, nil, fmt.Errorf("worlddef: duplicate zone name %q", zd.Name)
		}
		walls := zd.Walls
		id, err := w.NewZone(zd.Size, Floor, func(z *zone.Zone[TileKind]) {
			for _, wd := range walls {
				z.SetTile(zone.LocalCoord{X: wd.X, Y: wd.Y}, tile.Tile[TileKind]{Payload: Wall})
			}
		})
		if err != nil {
			return nil, nil, fmt.Errorf("worlddef: zone %q: %w", zd.Name, err)
		}
		byName[zd.Name] = id
	}

	for i, pd := range doc.Portals {
		zoneA, ok := byName[pd.ZoneA]
		if !ok {
			return nil, nil, fmt.Errorf("worlddef: portal %d references unknown zone %q", i, pd.ZoneA)
		}
		zoneB, ok := byName[pd.ZoneB]
		if !ok {
			return nil, nil, fmt.Errorf("worlddef: portal %d references unknown zone %q", i, pd.ZoneB)
		}
		exitA, err := ParseDirection(pd.ExitA)
		if err != nil {
			return nil, nil, fmt.Errorf("worlddef: portal %d: %w", i, err)
		}
		exitB, err := ParseDirection(pd.ExitB)
		if err != nil {
			return nil, nil, fmt.Errorf("worlddef: portal %d: %w", i, err)
		}
		if _, err := w.NewPortal(
			zoneA, zone.LocalCoord{X: pd.XA, Y: pd.YA}, exitA,
			zoneB, zone.LocalCoord{X: pd.XB, Y: pd.YB}, exitB,
		); err != nil {
			return nil, nil, fmt.Errorf("worlddef: portal %d: %w", i, err)
		}
	}

	return w, byName, nil
}

// DemoDocument is a small builtin world: a west room and an east room
// joined by a short corridor, with a single pillar in the east room so
// the FOV demo visibly casts a shadow.
func DemoDocument() *Document {
	return &Document{
		Zones: []ZoneDef{
			{Name: "west-room", Size: 9},
			{Name: "corridor", Size: 3},
			{Name: "east-room", Size: 9, Walls: []WallDef{{X: 5, Y: 4}}},
		},
		Portals: []PortalDef{
			{ZoneA: "west-room", XA: 8, YA: 4, ExitA: "east", ZoneB: "corridor", XB: 0, YB: 1, ExitB: "west"},
			{ZoneA: "corridor", XA: 2, YA: 1, ExitA: "east", ZoneB: "east-room", XB: 0, YB: 4, ExitB: "west"},
		},
	}
}
