// Package repository implements typed data access over MySQL.  Each
// entity owns one repository; invariant checks live inside the typed
// methods so they are enforced once, not re-derived at every call site.
// Sentinel values defined here let the engine and handlers distinguish
// failure scenarios without parsing driver errors.
package repository

import "errors"

// ErrSlotNotFound is returned when a composite slot uid resolves to no
// active slot row.  Handlers translate this into HTTP 404.
var ErrSlotNotFound = errors.New("slot not found")

// ErrNoSeats is returned when a reservation asks for more seats than
// the slot currently has remaining.
var ErrNoSeats = errors.New("not enough seats remaining")

// ErrSeatCapacityExceeded is returned when a reservation asks for more
// seats than the slot's total capacity; no remaining-seat state could
// ever satisfy it.
var ErrSeatCapacityExceeded = errors.New("requested seats exceed slot capacity")

// ErrPresaleNotFound is returned for unknown presale ids.
var ErrPresaleNotFound = errors.New("presale not found")

// ErrTicketNotFound is returned for unknown ticket ids.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrSellerNotFound is returned when an explicit seller reference does
// not resolve to an active staff account.
var ErrSellerNotFound = errors.New("seller not found")

// ErrOverrideLocked is returned when a write targets a day override
// that has already been finalized.
var ErrOverrideLocked = errors.New("day override is locked")

// ErrDuplicateUsername is returned when staff registration collides
// with an existing account name.
var ErrDuplicateUsername = errors.New("username already taken")
