// fovcli computes a single field-of-view query against a world-definition
// file (or the builtin demo world) and prints the visible tiles, one per
// line. It is meant for scripting and quick checks against a .toml world
// file, not for interactive play — see cmd/fovdemo for that.
package main

import (
	"flag"
	"fmt"
	"log"
	"sort"

	"github.com/tilecaster/zonefov/internal/fov"
	"github.com/tilecaster/zonefov/internal/world"
	"github.com/tilecaster/zonefov/internal/worlddef"
	"github.com/tilecaster/zonefov/internal/zone"
)

func main() {
	worldFile := flag.String("world", "", "Path to a TOML world-definition file (uses the builtin demo world if empty)")
	zoneName := flag.String("zone", "west-room", "Name of the focus zone")
	x := flag.Int("x", 4, "Focus local X coordinate")
	y := flag.Int("y", 4, "Focus local Y coordinate")
	radius := flag.Int("radius", 8, "FOV radius")
	flag.Parse()

	doc := worlddef.DemoDocument()
	if *worldFile != "" {
		loaded, err := worlddef.Load(*worldFile)
		if err != nil {
			log.Fatalf("load world: %v", err)
		}
		doc = loaded
	}

	w, byName, err := worlddef.Build(doc)
	if err != nil {
		log.Fatalf("build world: %v", err)
	}
	zoneID, ok := byName[*zoneName]
	if !ok {
		log.Fatalf("unknown zone %q", *zoneName)
	}

	focus := world.RelativeCoord{Zone: zoneID, Local: zone.LocalCoord{X: *x, Y: *y}}
	startAngle := make([]float64, *radius+1)
	endAngle := make([]float64, *radius+1)
	visible, err := fov.Compute(w, focus, *radius, startAngle, endAngle)
	if err != nil {
		log.Fatalf("compute: %v", err)
	}

	byZoneName := make(map[string]string, len(byName))
	for name, id := range byName {
		byZoneName[id.String()] = name
	}

	sort.Slice(visible, func(i, j int) bool {
		if visible[i].Zone != visible[j].Zone {
			return visible[i].Zone.String() < visible[j].Zone.String()
		}
		if visible[i].Local.Y != visible[j].Local.Y {
			return visible[i].Local.Y < visible[j].Local.Y
		}
		return visible[i].Local.X < visible[j].Local.X
	})

	fmt.Printf("%d tiles visible from %s(%d,%d) radius=%d\n", len(visible), *zoneName, *x, *y, *radius)
	for _, rc := range visible {
		name := byZoneName[rc.Zone.String()]
		fmt.Printf("  %s local=(%d,%d) global=(%d,%d)\n", name, rc.Local.X, rc.Local.Y, rc.Global.X, rc.Global.Y)
	}
}
