package models

import "time"

// Employee is a member of staff bookable at a per_employee business.
// An employee may carry a schedule of their own; when nil the business
// schedule applies.
type Employee struct {
	ID         string          `bson:"id" json:"id"`
	BusinessID string          `bson:"businessId" json:"business_id"`
	Name       string          `bson:"name" json:"name"`
	Active     bool            `bson:"active" json:"active"`
	Schedule   *WeeklySchedule `bson:"schedule,omitempty" json:"schedule,omitempty"`
	CreatedAt  time.Time       `bson:"createdAt" json:"created_at"`
}
