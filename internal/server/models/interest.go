package models

import "time"

// Interest statuses. Published means the object went back on offer after the
// assignment was undone.
const (
	InterestStatusInterested = "interested"
	InterestStatusAssigned   = "assigned"
	InterestStatusPublished  = "published"
)

// Interest is a member's claim on an object, unique per (object, member).
type Interest struct {
	ObjectID          int64     `json:"idObject"`
	MemberID          int64     `json:"idMember"`
	Status            string    `json:"status"`
	NotificationShown bool      `json:"notificationShown"`
	CreatedAt         time.Time `json:"createdAt"`
	Object            *Object   `json:"object,omitempty"`
}
