// Package fov implements the recursive shadow-casting field-of-view
// engine: an eight-octant sweep per zone, with obstruction slope
// arithmetic, propagation across portal boundaries under a
// direction-dependent half-field restriction, and deduplication across
// zones via a shared global coordinate frame.
//
// The sweep itself is a direct port of the original p2d engine
// (see the internal/fov section of DESIGN.md): the octant transform, the slope-table
// occlusion test, the backward-neighbor corner check, and the portal
// half-plane rules are preserved exactly, including the quirks the
// upstream design notes call out as open questions (the in-zone-only
// in_fov dedup, and the portal "remaining radius" special case for the
// origin zone).
package fov

import (
	"errors"
	"fmt"

	"github.com/tilecaster/zonefov/internal/direction"
	"github.com/tilecaster/zonefov/internal/fovclass"
	"github.com/tilecaster/zonefov/internal/ids"
	"github.com/tilecaster/zonefov/internal/tile"
	"github.com/tilecaster/zonefov/internal/world"
	"github.com/tilecaster/zonefov/internal/zone"
)

// ErrFocusOutOfBounds is returned when the focus's local coordinates are
// not within its zone.
var ErrFocusOutOfBounds = errors.New("fov: focus local coords out of bounds")

// ErrBufferTooSmall is returned when the caller's slope scratch buffers
// are shorter than radius+1.
var ErrBufferTooSmall = errors.New("fov: slope buffer shorter than radius+1")

// octant is one of the eight sign x orientation sweep directions.
type octant struct {
	Dx, Dy   int
	Vertical bool
}

// The eight octants: four sign combinations of (Dx, Dy), each swept both
// row-major and column-major. Order matches the original engine; it has
// no effect on the resulting set, only on enqueue order of portal
// discoveries (the output is a set, per spec.md §5 ordering is not
// meaningful).
var octants = [8]octant{
	{1, 1, true},
	{1, 1, false},
	{1, -1, true},
	{1, -1, false},
	{-1, 1, true},
	{-1, 1, false},
	{-1, -1, true},
	{-1, -1, false},
}

// selectOctants restricts the sweep to the half-plane facing away from
// the direction a portal was entered from (spec.md §4.3.1).
func selectOctants(fromDir direction.Direction) []octant {
	if fromDir == direction.None {
		all := octants
		return all[:]
	}
	out := make([]octant, 0, 4)
	for _, o := range octants {
		switch fromDir {
		case direction.North:
			if o.Dy == -1 {
				out = append(out, o)
			}
		case direction.South:
			if o.Dy == 1 {
				out = append(out, o)
			}
		case direction.East:
			if o.Dx == 1 {
				out = append(out, o)
			}
		case direction.West:
			if o.Dx == -1 {
				out = append(out, o)
			}
		}
	}
	return out
}

// pendingEntry is one entry on the engine's LIFO zone worklist.
type pendingEntry struct {
	zoneID          ids.ZoneID
	entryLocal      zone.LocalCoord
	entryGlobal     world.GlobalOffset
	remainingRadius int
	fromPortal      ids.PortalID
	hasFromPortal   bool
	fromDir         direction.Direction
}

// Compute returns the set of tiles visible from focus within radius
// tiles, walking through any portals reached along the way. startAngle
// and endAngle are caller-owned scratch buffers of length >= radius+1;
// their contents between calls are not meaningful.
func Compute[P tile.Payload](
	w *world.World[P], focus world.RelativeCoord, radius int,
	startAngle, endAngle []float64,
) ([]world.RelativeCoord, error) {
	if len(startAngle) < radius+1 || len(endAngle) < radius+1 {
		return nil, ErrBufferTooSmall
	}
	focusZone, err := w.GetZone(focus.Zone)
	if err != nil {
		return nil, err
	}
	if !focusZone.InBounds(focus.Local) {
		return nil, ErrFocusOutOfBounds
	}

	visible := make(map[world.RelativeCoord]struct{})
	pending := []pendingEntry{{
		zoneID:          focus.Zone,
		entryLocal:      focus.Local,
		entryGlobal:     focus.Global,
		remainingRadius: radius,
		fromDir:         direction.None,
	}}

	for len(pending) > 0 {
		entry := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		z, err := w.GetZone(entry.zoneID)
		if err != nil {
			return nil, err
		}

		if !entry.hasFromPortal {
			visible[world.RelativeCoord{Zone: entry.zoneID, Local: entry.entryLocal, Global: entry.entryGlobal}] = struct{}{}
			t := z.TileAt(entry.entryLocal)
			if pid, ok := t.HasPortal(); ok {
				pe, err := buildPendingEntry(w, entry.zoneID, pid, entry.entryGlobal, entry.remainingRadius)
				if err != nil {
					return nil, err
				}
				pending = append(pending, pe)
			}
		}

		inFov := make(map[int]struct{})
		for _, oct := range selectOctants(entry.fromDir) {
			tiles, zones, err := computeOctant(w, z, entry.entryLocal, entry.entryGlobal,
				entry.remainingRadius, entry.fromPortal, inFov, startAngle, endAngle, oct, entry.fromDir)
			if err != nil {
				return nil, err
			}
			for _, rc := range tiles {
				visible[rc] = struct{}{}
			}
			pending = append(pending, zones...)
		}
	}

	out := make([]world.RelativeCoord, 0, len(visible))
	for rc := range visible {
		out = append(out, rc)
	}
	return out, nil
}

// buildPendingEntry resolves portal pid from zoneID's side and produces
// the worklist entry for the zone on its other side.
func buildPendingEntry[P tile.Payload](
	w *world.World[P], zoneID ids.ZoneID, pid ids.PortalID,
	thisGlobal world.GlobalOffset, remainingRadius int,
) (pendingEntry, error) {
	p, err := w.GetPortal(pid)
	if err != nil {
		return pendingEntry{}, err
	}
	otherZoneID, fromDir, err := p.InfoFrom(zoneID)
	if err != nil {
		return pendingEntry{}, err
	}
	otherZone, err := w.GetZone(otherZoneID)
	if err != nil {
		return pendingEntry{}, err
	}
	entryLocal, ok := otherZone.PortalCoords(pid)
	if !ok {
		return pendingEntry{}, fmt.Errorf("fov: portal %s not registered in partner zone %s", pid, otherZoneID)
	}
	return pendingEntry{
		zoneID:          otherZoneID,
		entryLocal:      entryLocal,
		entryGlobal:     thisGlobal,
		remainingRadius: remainingRadius,
		fromPortal:      pid,
		hasFromPortal:   true,
		fromDir:         fromDir,
	}, nil
}

// computeOctant runs one octant of the shadow-cast sweep for a single
// zone entry and returns any newly visible tiles plus any newly
// discovered portal crossings. See package doc for fidelity notes.
func computeOctant[P tile.Payload](
	w *world.World[P], z *zone.Zone[P],
	position zone.LocalCoord, offset world.GlobalOffset,
	maxRadius int, fromPortal ids.PortalID,
	inFov map[int]struct{},
	startAngle, endAngle []float64,
	oct octant, fromDir direction.Direction,
) ([]world.RelativeCoord, []pendingEntry, error) {
	var visibleTiles []world.RelativeCoord
	var pendingZones []pendingEntry

	// Padding lets a sweep extend past a zone's edge before stopping, so
	// a portal entering near the far edge still illuminates the next
	// zone's full interior. The upstream engine hard-codes 34; we use
	// max(zone size, radius) instead (see the padding note in DESIGN.md).
	padding := z.Size
	if maxRadius > padding {
		padding = maxRadius
	}

	rawPX, rawPY := position.X, position.Y
	inOX, inOY := offset.X, offset.Y
	wsize := z.Size
	wsizeSq := wsize * wsize

	positionX, positionY := rawPX, rawPY
	if fromDir != direction.None {
		positionX, positionY = rawPX-inOX, rawPY-inOY
	}

	dx, dy := oct.Dx, oct.Dy

	iteration := 1
	done := false
	totalObstacles := 0
	obstaclesInLastLine := 0
	minAngle := 0.0

	var x, y int
	if oct.Vertical {
		x = 0
		y = positionY + dy
	} else {
		x = positionX + dx
		y = 0
	}
	if oct.Vertical {
		if y < -padding || y >= wsize+padding {
			done = true
		}
	} else if x < -padding || x >= wsize+padding {
		done = true
	}

	for !done {
		slopesPerCell := 1.0 / (float64(iteration) + 1.0)
		halfSlopes := slopesPerCell * 0.5
		processedCell := int(minAngle / slopesPerCell)
		done = true

		var mini, maxi int
		if oct.Vertical {
			mini = maxInt(-padding, positionX-iteration)
			maxi = minInt(wsize+padding-1, positionX+iteration)
		} else {
			mini = maxInt(-padding, positionY-iteration)
			maxi = minInt(wsize+padding-1, positionY+iteration)
		}

		var inner int
		if oct.Vertical {
			x = positionX + processedCell*dx
			inner = x
		} else {
			y = positionY + processedCell*dy
			inner = y
		}

		for inner >= mini && inner <= maxi {
			c := x + y*wsize
			inBounds := x >= 0 && y >= 0 && x < wsize && y < wsize

			var cClass fovclass.FovClass
			var cAllowLOS bool
			var cPortal ids.PortalID
			var cHasPortal bool
			if inBounds {
				t := z.TileAtIndex(c)
				cClass = t.Payload.FovClass()
				cAllowLOS = cClass.AllowLOS()
				cPortal, cHasPortal = t.HasPortal()
			} else {
				cClass = fovclass.Void
				cAllowLOS = true
			}
			isVoid := cClass == fovclass.Void
			allowLOS := cAllowLOS
			visibleCell := true

			startSlope := float64(processedCell) * slopesPerCell
			centerSlope := startSlope + halfSlopes
			endSlope := startSlope + slopesPerCell

			if obstaclesInLastLine > 0 {
				if _, already := inFov[c]; !already {
					idx := 0
					for inBounds && visibleCell && idx < obstaclesInLastLine {
						if allowLOS {
							if centerSlope > startAngle[idx] && centerSlope < endAngle[idx] {
								visibleCell = false
							}
						} else if startSlope >= startAngle[idx] && endSlope <= endAngle[idx] {
							visibleCell = false
						}

						var zy int
						var backBoundsOK bool
						if oct.Vertical {
							zy = x + (y-dy)*wsize
							backBoundsOK = x-dx >= 0 && x-dx < wsize
						} else {
							zy = (x - dx) + y*wsize
							backBoundsOK = y-dy >= 0 && y-dy < wsize
						}
						zyTrans := true
						if zy >= 0 && zy < wsizeSq {
							zyTrans = z.TileAtIndex(zy).Payload.FovClass().AllowLOS()
						}
						zyx := (x - dx) + (y-dy)*wsize
						zyxTrans := true
						if zyx >= 0 && zyx < wsizeSq {
							zyxTrans = z.TileAtIndex(zyx).Payload.FovClass().AllowLOS()
						}
						_, zyInFov := inFov[zy]
						_, zyxInFov := inFov[zyx]
						if visibleCell &&
							(!zyInFov || !zyTrans) &&
							(backBoundsOK && (!zyxInFov || !zyxTrans)) {
							visibleCell = false
						}
						idx++
					}
				}
			}

			if isVoid {
				visibleCell = false
				done = false
			}

			nonBlockingAxis := true
			switch fromDir {
			case direction.North:
				if y == rawPY && x != rawPX {
					nonBlockingAxis, visibleCell, done, allowLOS = false, true, true, false
				} else if y > rawPY {
					visibleCell, done = false, false
				}
			case direction.South:
				if y == rawPY && x != rawPX {
					nonBlockingAxis, visibleCell, done, allowLOS = false, true, true, false
				} else if y < rawPY {
					visibleCell, done = false, false
				}
			case direction.East:
				if x == rawPX && y != rawPY {
					nonBlockingAxis, visibleCell, done, allowLOS = false, true, true, false
				} else if x < rawPX {
					visibleCell, done = false, false
				}
			case direction.West:
				if x == rawPX && y != rawPY {
					nonBlockingAxis, visibleCell, done, allowLOS = false, true, true, false
				} else if x > rawPX {
					visibleCell, done = false, false
				}
			}

			if visibleCell {
				thisGlobal := world.GlobalOffset{X: offset.X + (x - rawPX), Y: offset.Y + (y - rawPY)}
				_, foundAlready := inFov[c]
				if nonBlockingAxis {
					inFov[c] = struct{}{}
				}

				addThisTile := true
				if cHasPortal && cPortal != fromPortal {
					if !foundAlready {
						iter := iteration
						if iter < 0 {
							iter = 0
						}
						remaining := maxRadius - iter
						if remaining < 0 {
							remaining = 0
						}
						if fromPortal == (ids.PortalID{}) {
							remaining = maxRadius
						}
						pe, err := buildPendingEntry(w, z.ID, cPortal, thisGlobal, remaining)
						if err != nil {
							return nil, nil, err
						}
						pendingZones = append(pendingZones, pe)
						addThisTile = false
					}
				}

				if nonBlockingAxis && addThisTile {
					visibleTiles = append(visibleTiles, world.RelativeCoord{
						Zone: z.ID, Local: zone.LocalCoord{X: x, Y: y}, Global: thisGlobal,
					})
				}

				done = false
				if !allowLOS {
					if minAngle >= startSlope {
						minAngle = endSlope
					} else if totalObstacles < len(startAngle) {
						startAngle[totalObstacles] = startSlope
						endAngle[totalObstacles] = endSlope
						totalObstacles++
					}
				}
			}

			processedCell++
			if oct.Vertical {
				x += dx
				inner = x
			} else {
				y += dy
				inner = y
			}
		}

		if iteration == maxRadius {
			done = true
		}
		iteration++
		obstaclesInLastLine = totalObstacles

		if oct.Vertical {
			y += dy
			if y < -padding || y >= wsize+padding {
				done = true
			}
		} else {
			x += dx
			if x < -padding || x >= wsize+padding {
				done = true
			}
		}

		if minAngle == 1.0 {
			done = true
		}
	}

	return visibleTiles, pendingZones, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
