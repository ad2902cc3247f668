package models

// Object statuses. The lifecycle is available → assigned → given, with
// cancelled reachable from available and assigned.
const (
	ObjectStatusAvailable = "available"
	ObjectStatusAssigned  = "assigned"
	ObjectStatusGiven     = "given"
	ObjectStatusCancelled = "cancelled"
)

// Type is an object category, either shipped with the system (IsDefault) or
// introduced by a member when offering an object.
type Type struct {
	ID        int64  `json:"id"`
	Name      string `json:"typeName"`
	IsDefault bool   `json:"isDefault"`
}

// Object is a physical item offered by one member.
type Object struct {
	ID          int64  `json:"id"`
	Type        *Type  `json:"type"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Image       string `json:"image,omitempty"`
	OfferorID   int64  `json:"idOfferor"`
}

// IsObjectStatus reports whether s is one of the object statuses.
func IsObjectStatus(s string) bool {
	switch s {
	case ObjectStatusAvailable, ObjectStatusAssigned, ObjectStatusGiven, ObjectStatusCancelled:
		return true
	}
	return false
}
