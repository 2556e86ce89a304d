package portal

import (
	"errors"
	"testing"

	"github.com/tilecaster/zonefov/internal/direction"
	"github.com/tilecaster/zonefov/internal/ids"
)

func TestNewRejectsNonOppositeDirections(t *testing.T) {
	a, b := ids.NewZoneID(), ids.NewZoneID()
	if _, err := New(a, direction.East, b, direction.East); !errors.Is(err, ErrDirectionMismatch) {
		t.Fatalf("New with matching exits: err = %v, want ErrDirectionMismatch", err)
	}
}

func TestNewAcceptsOppositeDirections(t *testing.T) {
	a, b := ids.NewZoneID(), ids.NewZoneID()
	cases := []struct{ aExit, bExit direction.Direction }{
		{direction.North, direction.South},
		{direction.South, direction.North},
		{direction.East, direction.West},
		{direction.West, direction.East},
	}
	for _, c := range cases {
		if _, err := New(a, c.aExit, b, c.bExit); err != nil {
			t.Errorf("New(%v, %v) failed: %v", c.aExit, c.bExit, err)
		}
	}
}

func TestInfoFrom(t *testing.T) {
	a, b := ids.NewZoneID(), ids.NewZoneID()
	p, err := New(a, direction.East, b, direction.West)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	other, exitDir, err := p.InfoFrom(a)
	if err != nil || other != b || exitDir != direction.East {
		t.Fatalf("InfoFrom(a) = %v, %v, %v", other, exitDir, err)
	}

	other, exitDir, err = p.InfoFrom(b)
	if err != nil || other != a || exitDir != direction.West {
		t.Fatalf("InfoFrom(b) = %v, %v, %v", other, exitDir, err)
	}
}

func TestInfoFromUnknownZone(t *testing.T) {
	a, b := ids.NewZoneID(), ids.NewZoneID()
	p, err := New(a, direction.North, b, direction.South)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, _, err := p.InfoFrom(ids.NewZoneID()); !errors.Is(err, ErrZoneMismatch) {
		t.Fatalf("InfoFrom(unknown): err = %v, want ErrZoneMismatch", err)
	}
}
