// Package ids holds the opaque, globally-unique identifiers shared by the
// zone/portal/world packages. Keeping them in their own package avoids an
// import cycle between zone (which needs to name a portal) and portal
// (which needs to name a zone).
package ids

import "github.com/google/uuid"

// ZoneID identifies a Zone. The zero value is never assigned by NewZoneID.
type ZoneID uuid.UUID

// PortalID identifies a Portal. The zero value is never assigned by NewPortalID.
type PortalID uuid.UUID

// NewZoneID mints a fresh random zone id.
func NewZoneID() ZoneID { return ZoneID(uuid.New()) }

// NewPortalID mints a fresh random portal id.
func NewPortalID() PortalID { return PortalID(uuid.New()) }

func (z ZoneID) String() string   { return uuid.UUID(z).String() }
func (p PortalID) String() string { return uuid.UUID(p).String() }
