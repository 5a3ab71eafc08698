package member

import "time"

// Member represents a registered chama member keyed by phone number.
type Member struct {
	ID        string
	Name      string
	Phone     string
	CreatedAt time.Time
}

// Role labels returned by Service.Classify.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)
