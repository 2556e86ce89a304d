package world

import (
	"errors"
	"testing"

	"github.com/tilecaster/zonefov/internal/direction"
	"github.com/tilecaster/zonefov/internal/fovclass"
	"github.com/tilecaster/zonefov/internal/ids"
	"github.com/tilecaster/zonefov/internal/tile"
	"github.com/tilecaster/zonefov/internal/zone"
)

type testPayload fovclass.FovClass

func (p testPayload) FovClass() fovclass.FovClass { return fovclass.FovClass(p) }

const (
	void        = testPayload(fovclass.Void)
	transparent = testPayload(fovclass.Transparent)
	blocking    = testPayload(fovclass.Blocking)
)

func newFloorZone(t *testing.T, w *World[testPayload], size int, walls map[zone.LocalCoord]bool) ids.ZoneID {
	t.Helper()
	id, err := w.NewZone(size, transparent, func(z *zone.Zone[testPayload]) {
		for coord, wall := range walls {
			if wall {
				z.SetTile(coord, tile.Tile[testPayload]{Payload: blocking, Passable: false})
			}
		}
	})
	if err != nil {
		t.Fatalf("NewZone: %v", err)
	}
	return id
}

// S6: a blocked destination tile.
func TestTryTraversalBlocked(t *testing.T) {
	w := New[testPayload]()
	a := newFloorZone(t, w, 5, map[zone.LocalCoord]bool{{X: 2, Y: 1}: true})

	result, err := w.TryTraversal(GlobalCoord{Zone: a, Local: zone.LocalCoord{X: 2, Y: 2}}, direction.North)
	if err != nil {
		t.Fatalf("TryTraversal: %v", err)
	}
	if result.Kind != TraversalBlocked {
		t.Fatalf("Kind = %v, want TraversalBlocked", result.Kind)
	}
}

func TestTryTraversalDestination(t *testing.T) {
	w := New[testPayload]()
	a := newFloorZone(t, w, 5, nil)

	result, err := w.TryTraversal(GlobalCoord{Zone: a, Local: zone.LocalCoord{X: 2, Y: 2}}, direction.North)
	if err != nil {
		t.Fatalf("TryTraversal: %v", err)
	}
	if result.Kind != TraversalDestination {
		t.Fatalf("Kind = %v, want TraversalDestination", result.Kind)
	}
	want := zone.LocalCoord{X: 2, Y: 1}
	if result.Dest.Zone != a || result.Dest.Local != want {
		t.Fatalf("Dest = %+v, want zone %s local %+v", result.Dest, a, want)
	}
}

func TestTryTraversalOutsideBounds(t *testing.T) {
	w := New[testPayload]()
	a := newFloorZone(t, w, 5, nil)

	result, err := w.TryTraversal(GlobalCoord{Zone: a, Local: zone.LocalCoord{X: 0, Y: 0}}, direction.North)
	if err != nil {
		t.Fatalf("TryTraversal: %v", err)
	}
	if result.Kind != TraversalOutsideBounds {
		t.Fatalf("Kind = %v, want TraversalOutsideBounds", result.Kind)
	}
}

func TestTryTraversalRejectsNoneDirection(t *testing.T) {
	w := New[testPayload]()
	a := newFloorZone(t, w, 5, nil)
	if _, err := w.TryTraversal(GlobalCoord{Zone: a, Local: zone.LocalCoord{X: 2, Y: 2}}, direction.None); !errors.Is(err, ErrInvalidDirection) {
		t.Fatalf("err = %v, want ErrInvalidDirection", err)
	}
}

// S4-style setup: crossing a portal advances into the partner zone, one
// step past the portal's own coordinates.
func TestTryTraversalCrossesPortal(t *testing.T) {
	w := New[testPayload]()
	a := newFloorZone(t, w, 5, nil)
	b := newFloorZone(t, w, 5, nil)

	_, err := w.NewPortal(a, zone.LocalCoord{X: 4, Y: 2}, direction.East, b, zone.LocalCoord{X: 0, Y: 2}, direction.West)
	if err != nil {
		t.Fatalf("NewPortal: %v", err)
	}

	result, err := w.TryTraversal(GlobalCoord{Zone: a, Local: zone.LocalCoord{X: 4, Y: 2}}, direction.East)
	if err != nil {
		t.Fatalf("TryTraversal: %v", err)
	}
	if result.Kind != TraversalDestination {
		t.Fatalf("Kind = %v, want TraversalDestination", result.Kind)
	}
	want := GlobalCoord{Zone: b, Local: zone.LocalCoord{X: 1, Y: 2}}
	if result.Dest != want {
		t.Fatalf("Dest = %+v, want %+v", result.Dest, want)
	}
}

func TestNewPortalRejectsMismatchedDirections(t *testing.T) {
	w := New[testPayload]()
	a := newFloorZone(t, w, 5, nil)
	b := newFloorZone(t, w, 5, nil)
	if _, err := w.NewPortal(a, zone.LocalCoord{X: 4, Y: 2}, direction.East, b, zone.LocalCoord{X: 0, Y: 2}, direction.East); err == nil {
		t.Fatal("NewPortal with matching exits should have failed")
	}
}

func TestGetZoneUnknown(t *testing.T) {
	w := New[testPayload]()
	if _, err := w.GetZone(ids.NewZoneID()); !errors.Is(err, ErrUnknownZone) {
		t.Fatalf("err = %v, want ErrUnknownZone", err)
	}
}

func TestGetPortalUnknown(t *testing.T) {
	w := New[testPayload]()
	if _, err := w.GetPortal(ids.NewPortalID()); !errors.Is(err, ErrUnknownPortal) {
		t.Fatalf("err = %v, want ErrUnknownPortal", err)
	}
}

func TestZoneIDsAndPortalIDs(t *testing.T) {
	w := New[testPayload]()
	a := newFloorZone(t, w, 3, nil)
	b := newFloorZone(t, w, 3, nil)
	pid, err := w.NewPortal(a, zone.LocalCoord{X: 2, Y: 1}, direction.East, b, zone.LocalCoord{X: 0, Y: 1}, direction.West)
	if err != nil {
		t.Fatalf("NewPortal: %v", err)
	}

	zids := w.ZoneIDs()
	if len(zids) != 2 {
		t.Fatalf("ZoneIDs() has %d entries, want 2", len(zids))
	}
	pids := w.PortalIDs()
	if len(pids) != 1 || pids[0] != pid {
		t.Fatalf("PortalIDs() = %v, want [%v]", pids, pid)
	}
}
