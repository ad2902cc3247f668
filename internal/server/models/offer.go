package models

import "time"

// Offer statuses.
const (
	OfferStatusPublished = "published"
	OfferStatusCancelled = "cancelled"
)

// Offer is a pickup proposal for one object. An object collects a new offer
// on every attempt; at most one of them is not cancelled.
type Offer struct {
	ID       int64     `json:"id"`
	Date     time.Time `json:"date"`
	TimeSlot string    `json:"timeSlot"`
	Status   string    `json:"status"`
	Object   *Object   `json:"object"`
}

// OfferFilter narrows the offer search. Zero values mean "no filter";
// ObjectStatus outside the object statuses is ignored.
type OfferFilter struct {
	Search       string
	MemberID     int64
	Type         string
	ObjectStatus string
}
