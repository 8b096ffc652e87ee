package model

import "time"

// Theater represents a movie theatre venue.  A theater owns zero or more
// halls.  This struct corresponds to a row in the `theaters` table.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – display name of the theater (e.g. "PVR: Nexus").
//  Location      – street or mall-level address line.
//  City          – city used for catalog browsing.
//  State         – state or region.
//  Pincode       – postal code.
//  ContactNumber – phone number for the box office.
//  IsActive      – soft-delete flag; inactive theaters stay in history.
//  CreatedAt     – timestamp when the row was created.
type Theater struct {
	ID            uint64    // theaters.id
	Name          string    // theaters.name
	Location      string    // theaters.location
	City          string    // theaters.city
	State         string    // theaters.state
	Pincode       string    // theaters.pincode
	ContactNumber string    // theaters.contact_number
	IsActive      bool      // theaters.is_active
	CreatedAt     time.Time // theaters.created_at
}
