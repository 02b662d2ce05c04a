package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssuePriority enum
type IssuePriority string

const (
	Low    IssuePriority = "Low"
	Medium IssuePriority = "Medium"
	High   IssuePriority = "High"
)

// IssueStatus enum
type IssueStatus string

const (
	Pending    IssueStatus = "Pending"
	InProgress IssueStatus = "In Progress"
	Resolved   IssueStatus = "Resolved"
)

// Priorities lists the accepted priorities in display order.
var Priorities = []IssuePriority{Low, Medium, High}

// Statuses lists the accepted statuses in display order.
var Statuses = []IssueStatus{Pending, InProgress, Resolved}

// Valid reports whether p is one of the enumerated priorities. Matching is exact.
func (p IssuePriority) Valid() bool {
	switch p {
	case Low, Medium, High:
		return true
	}
	return false
}

// Valid reports whether s is one of the enumerated statuses. Matching is exact.
func (s IssueStatus) Valid() bool {
	switch s {
	case Pending, InProgress, Resolved:
		return true
	}
	return false
}

// Location is where an issue was observed. Every field is optional.
type Location struct {
	Latitude  *float64 `bson:"lat,omitempty" json:"lat,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `bson:"lng,omitempty" json:"lng,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Address   string   `bson:"address,omitempty" json:"address,omitempty"`
}

// IsZero reports whether no location field is set.
func (l Location) IsZero() bool {
	return l.Latitude == nil && l.Longitude == nil && l.Address == ""
}

// Issue represents a civic issue reported by a citizen
type Issue struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	Priority    IssuePriority      `bson:"priority" json:"priority"`
	Status      IssueStatus        `bson:"status" json:"status"`
	Location    *Location          `bson:"location,omitempty" json:"location,omitempty"`
	Images      []string           `bson:"images" json:"images"`
	ReportedAt  time.Time          `bson:"reportedAt" json:"reportedAt"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IssueInput carries the citizen-supplied fields of a new issue.
// Empty Priority and Status fall back to Low and Pending.
type IssueInput struct {
	Title       string        `validate:"required"`
	Description string        `validate:"required"`
	Category    string        `validate:"required"`
	Priority    IssuePriority `validate:"omitempty,issue_priority"`
	Status      IssueStatus   `validate:"omitempty,issue_status"`
	Location    *Location
}

// IssuePatch is a partial update. Nil fields are left untouched; a non-nil
// Location replaces the stored one whole.
type IssuePatch struct {
	Title       *string        `json:"title,omitempty" validate:"omitempty,min=1"`
	Description *string        `json:"description,omitempty" validate:"omitempty,min=1"`
	Category    *string        `json:"category,omitempty" validate:"omitempty,min=1"`
	Priority    *IssuePriority `json:"priority,omitempty" validate:"omitempty,issue_priority"`
	Status      *IssueStatus   `json:"status,omitempty" validate:"omitempty,issue_status"`
	Location    *Location      `json:"location,omitempty"`
}

// IsEmpty reports whether the patch sets nothing.
func (p IssuePatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil &&
		p.Priority == nil && p.Status == nil && p.Location == nil
}

// TouchesRecord reports whether the patch rewrites fields outside the
// officer workflow (status and priority).
func (p IssuePatch) TouchesRecord() bool {
	return p.Title != nil || p.Description != nil || p.Category != nil || p.Location != nil
}

// HeatmapPoint is the projection of an issue used by the map view.
type HeatmapPoint struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Category  string             `bson:"category" json:"category"`
	Status    IssueStatus        `bson:"status" json:"status"`
	Priority  IssuePriority      `bson:"priority" json:"priority"`
	Latitude  float64            `bson:"lat" json:"lat"`
	Longitude float64            `bson:"lng" json:"lng"`
	Address   string             `bson:"address,omitempty" json:"address,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// NamedCount is one bucket of a grouped count.
type NamedCount struct {
	Name  string `bson:"name" json:"name"`
	Value int64  `bson:"value" json:"value"`
}

// DailyCount is the number of issues created on Date (YYYY-MM-DD).
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// IssueStats backs the officer analytics view.
type IssueStats struct {
	TotalIssues int64        `json:"totalIssues"`
	OpenIssues  int64        `json:"openIssues"`
	ByStatus    []NamedCount `json:"issuesByStatus"`
	ByPriority  []NamedCount `json:"issuesByPriority"`
	ByCategory  []NamedCount `json:"issuesByCategory"`
	Last7Days   []DailyCount `json:"last7Days"`
}
