package worlddef

import (
	"testing"

	"github.com/tilecaster/zonefov/internal/direction"
	"github.com/tilecaster/zonefov/internal/zone"
)

func TestBuildDemoDocument(t *testing.T) {
	w, byName, err := Build(DemoDocument())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(byName) != 3 {
		t.Fatalf("byName has %d entries, want 3", len(byName))
	}
	if len(w.ZoneIDs()) != 3 {
		t.Fatalf("ZoneIDs() has %d entries, want 3", len(w.ZoneIDs()))
	}
	if len(w.PortalIDs()) != 2 {
		t.Fatalf("PortalIDs() has %d entries, want 2", len(w.PortalIDs()))
	}

	east, ok := byName["east-room"]
	if !ok {
		t.Fatal("east-room missing from byName")
	}
	z, err := w.GetZone(east)
	if err != nil {
		t.Fatalf("GetZone: %v", err)
	}
	if z.TileAt(zone.LocalCoord{X: 5, Y: 4}).Payload != Wall {
		t.Error("east-room (5,4) should be a Wall tile")
	}
	if z.TileAt(zone.LocalCoord{X: 0, Y: 0}).Payload != Floor {
		t.Error("east-room (0,0) should be a Floor tile")
	}
}

func TestBuildRejectsUnknownZoneReference(t *testing.T) {
	doc := &Document{
		Zones: []ZoneDef{{Name: "a", Size: 3}},
		Portals: []PortalDef{
			{ZoneA: "a", ExitA: "east", ZoneB: "missing", ExitB: "west"},
		},
	}
	if _, _, err := Build(doc); err == nil {
		t.Fatal("Build should fail when a portal references an unknown zone")
	}
}

func TestBuildRejectsDuplicateZoneName(t *testing.T) {
	doc := &Document{Zones: []ZoneDef{{Name: "a", Size: 3}, {Name: "a", Size: 3}}}
	if _, _, err := Build(doc); err == nil {
		t.Fatal("Build should fail on duplicate zone names")
	}
}

func TestBuildRejectsBadDirection(t *testing.T) {
	doc := &Document{
		Zones: []ZoneDef{{Name: "a", Size: 3}, {Name: "b", Size: 3}},
		Portals: []PortalDef{
			{ZoneA: "a", ExitA: "up", ZoneB: "b", ExitB: "west"},
		},
	}
	if _, _, err := Build(doc); err == nil {
		t.Fatal("Build should fail on an unrecognized direction string")
	}
}

func TestParseDirection(t *testing.T) {
	cases := []struct {
		in   string
		want direction.Direction
		ok   bool
	}{
		{"north", direction.North, true},
		{"East", direction.East, true},
		{" south ", direction.South, true},
		{"west", direction.West, true},
		{"nowhere", direction.None, false},
	}
	for _, c := range cases {
		got, err := ParseDirection(c.in)
		if (err == nil) != c.ok {
			t.Errorf("ParseDirection(%q) err = %v, want ok=%v", c.in, err, c.ok)
			continue
		}
		if err == nil && got != c.want {
			t.Errorf("ParseDirection(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
