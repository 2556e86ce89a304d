// Package portal implements the undirected link between exactly two
// zones that the FOV engine and World traversal cross.
package portal

import (
	"errors"
	"fmt"

	"github.com/tilecaster/zonefov/internal/direction"
	"github.com/tilecaster/zonefov/internal/ids"
)

// ErrDirectionMismatch is returned by New when the two sides of a portal
// are not opposite exit directions.
var ErrDirectionMismatch = errors.New("portal: exit directions must be opposite")

// ErrZoneMismatch is returned by Portal.InfoFrom when asked about a zone
// that is neither side of the portal.
var ErrZoneMismatch = errors.New("portal: zone id is not a side of this portal")

// Portal is an undirected link between zone A and zone B. Each side
// records the direction one exits the zone through the portal; the two
// exit directions must be opposite (North<->South, East<->West).
type Portal struct {
	ID    ids.PortalID
	AZone ids.ZoneID
	AExit direction.Direction
	BZone ids.ZoneID
	BExit direction.Direction
}

// New validates the opposite-direction invariant and builds a Portal.
func New(aZone ids.ZoneID, aExit direction.Direction, bZone ids.ZoneID, bExit direction.Direction) (*Portal, error) {
	if aExit.Opposite() != bExit {
		return nil, fmt.Errorf("%w: a_exit=%v b_exit=%v", ErrDirectionMismatch, aExit, bExit)
	}
	return &Portal{
		ID:    ids.NewPortalID(),
		AZone: aZone,
		AExit: aExit,
		BZone: bZone,
		BExit: bExit,
	}, nil
}

// InfoFrom returns the partner zone id and the direction one exits THIS
// side of the portal, given the zone id of the side being asked about.
func (p *Portal) InfoFrom(zoneID ids.ZoneID) (other ids.ZoneID, exitDir direction.Direction, err error) {
	switch zoneID {
	case p.AZone:
		return p.BZone, p.AExit, nil
	case p.BZone:
		return p.AZone, p.BExit, nil
	default:
		return ids.ZoneID{}, direction.None, fmt.Errorf("%w: %s", ErrZoneMismatch, zoneID)
	}
}
