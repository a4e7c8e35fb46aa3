package model

import "time"

// Staff roles.  Sellers create presales, dispatchers manage boarding
// and per-ticket refunds, owners read aggregates and manage overrides.
const (
	RoleSeller     = "SELLER"
	RoleDispatcher = "DISPATCHER"
	RoleOwner      = "OWNER"
)

// Seller is a staff account.  The name covers all three roles; the
// sales records only ever reference accounts with the SELLER role but
// authentication is shared.
type Seller struct {
	ID           uint64    // sellers.id
	Username     string    // sellers.username (unique)
	DisplayName  string    // sellers.display_name
	PasswordHash string    // sellers.password_hash (bcrypt)
	Role         string    // sellers.role
	IsActive     bool      // sellers.is_active
	CreatedAt    time.Time // sellers.created_at
}
