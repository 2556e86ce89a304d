package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/tilecaster/zonefov/internal/direction"
	"github.com/tilecaster/zonefov/internal/fov"
	"github.com/tilecaster/zonefov/internal/ids"
	"github.com/tilecaster/zonefov/internal/world"
	"github.com/tilecaster/zonefov/internal/worlddef"
	"github.com/tilecaster/zonefov/internal/zone"
)

// fovSession drives one SSH connection: it owns the avatar's position and
// redraws the current zone every time the avatar moves.
type fovSession struct {
	w      *world.World[worlddef.TileKind]
	screen tcell.Screen
	name   string
	radius int

	zoneID ids.ZoneID
	local  zone.LocalCoord

	startAngle, endAngle []float64
}

func newFovSession(w *world.World[worlddef.TileKind], spawnZone ids.ZoneID, radius int, screen tcell.Screen, name string) *fovSession {
	z, _ := w.GetZone(spawnZone)
	return &fovSession{
		w:          w,
		screen:     screen,
		name:       name,
		radius:     radius,
		zoneID:     spawnZone,
		local:      spawnLocal(z),
		startAngle: make([]float64, radius+1),
		endAngle:   make([]float64, radius+1),
	}
}

var visibleStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite)
var dimStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
var wallStyle = tcell.StyleDefault.Foreground(tcell.ColorSilver)
var avatarStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
var statusStyle = tcell.StyleDefault.Foreground(tcell.ColorAqua)

func (s *fovSession) run() {
	s.draw()
	for {
		ev := s.screen.PollEvent()
		switch e := ev.(type) {
		case *tcell.EventResize:
			s.screen.Sync()
			s.draw()
		case *tcell.EventKey:
			if s.handleKey(e) {
				return
			}
			s.draw()
		case nil:
			return
		}
	}
}

// handleKey applies one keystroke and reports whether the session should
// end.
func (s *fovSession) handleKey(e *tcell.EventKey) (quit bool) {
	var dir direction.Direction
	switch {
	case e.Key() == tcell.KeyCtrlC || e.Rune() == 'q':
		return true
	case e.Key() == tcell.KeyUp:
		dir = direction.North
	case e.Key() == tcell.KeyDown:
		dir = direction.South
	case e.Key() == tcell.KeyRight:
		dir = direction.East
	case e.Key() == tcell.KeyLeft:
		dir = direction.West
	default:
		return false
	}

	result, err := s.w.TryTraversal(world.GlobalCoord{Zone: s.zoneID, Local: s.local}, dir)
	if err != nil || result.Kind != world.TraversalDestination {
		return false
	}
	s.zoneID = result.Dest.Zone
	s.local = result.Dest.Local
	return false
}

func (s *fovSession) draw() {
	s.screen.Clear()
	z, err := s.w.GetZone(s.zoneID)
	if err != nil {
		return
	}

	focus := world.RelativeCoord{Zone: s.zoneID, Local: s.local}
	visible, err := fov.Compute(s.w, focus, s.radius, s.startAngle, s.endAngle)
	lit := make(map[zone.LocalCoord]bool, len(visible))
	if err == nil {
		for _, rc := range visible {
			if rc.Zone == s.zoneID {
				lit[rc.Local] = true
			}
		}
	}

	const originX, originY = 2, 1
	for y := 0; y < z.Size; y++ {
		for x := 0; x < z.Size; x++ {
			coord := zone.LocalCoord{X: x, Y: y}
			ch, style := glyphFor(z, coord, lit[coord])
			if coord == s.local {
				ch, style = '@', avatarStyle
			}
			s.screen.SetContent(originX+x*2, originY+y, ch, nil, style)
		}
	}

	status := fmt.Sprintf("%s  zone=%s  pos=(%d,%d)  radius=%d  arrows to move, q to quit",
		s.name, shortID(s.zoneID), s.local.X, s.local.Y, s.radius)
	drawText(s.screen, 2, z.Size+2, status, statusStyle)
	s.screen.Show()
}

func glyphFor(z *zone.Zone[worlddef.TileKind], coord zone.LocalCoord, lit bool) (rune, tcell.Style) {
	t := z.TileAt(coord)
	_, hasPortal := t.HasPortal()
	switch {
	case t.Payload == worlddef.Wall:
		if lit {
			return '#', wallStyle
		}
		return '#', dimStyle
	case hasPortal:
		if lit {
			return '>', visibleStyle
		}
		return '>', dimStyle
	case lit:
		return '.', visibleStyle
	default:
		return '.', dimStyle
	}
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		screen.SetContent(col, y, r, nil, style)
		col += runewidth.RuneWidth(r)
	}
}

func shortID(id ids.ZoneID) string {
	s := id.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
