// Package models defines server-side records shared by repositories, services
// and the HTTP layer.
package models

// Member statuses.
const (
	MemberStatusPending = "pending"
	MemberStatusValid   = "valid"
	MemberStatusDenied  = "denied"
)

// Member roles.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Member is a registered (or registering) user. Password holds the hash once
// persisted; on registration and profile updates it carries the plaintext until
// the service hashes it.
type Member struct {
	ID            int64    `json:"id"`
	Username      string   `json:"username"`
	Password      string   `json:"-"`
	Lastname      string   `json:"lastname"`
	Firstname     string   `json:"firstname"`
	Phone         string   `json:"phone,omitempty"`
	Image         string   `json:"image,omitempty"`
	Status        string   `json:"status"`
	Role          string   `json:"role"`
	RefusalReason string   `json:"refusalReason,omitempty"`
	Address       *Address `json:"address,omitempty"`
}

// Address belongs to exactly one member and is only written together with it.
type Address struct {
	MemberID       int64  `json:"-"`
	UnitNumber     string `json:"unitNumber,omitempty"`
	BuildingNumber string `json:"buildingNumber"`
	Street         string `json:"street"`
	Postcode       string `json:"postcode"`
	Commune        string `json:"commune"`
	Country        string `json:"country"`
}

// IsAdmin reports whether the member holds the admin role.
func (m *Member) IsAdmin() bool {
	return m.Role == RoleAdmin
}
