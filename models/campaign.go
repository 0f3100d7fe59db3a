package models

import (
	"gorm.io/gorm"
)

// Campaign statuses
const (
	CampaignStatusActive    = "active"
	CampaignStatusDraft     = "draft"
	CampaignStatusScheduled = "scheduled"
)

// Budget types
const (
	BudgetTypeDaily    = "daily"
	BudgetTypeLifetime = "lifetime"
)

// Campaign is a marketing campaign record. Reporting columns
// (results, impressions, reach and friends) are stored as display
// strings, matching what ad platforms export.
type Campaign struct {
	gorm.Model

	CreatedBy uint `gorm:"index" json:"createdBy"`

	Name     string `gorm:"not null" json:"name"`
	Status   string `gorm:"default:'draft'" json:"status"`
	Delivery string `json:"delivery"`
	Active   bool   `gorm:"default:false" json:"active"`

	Objective      string `json:"objective"`
	BidStrategy    string `json:"bidStrategy"`
	Placement      string `json:"placement"`
	TargetAudience string `json:"targetAudience"`
	Actions        string `json:"actions"`

	// Budget holds the derived display value, e.g. "$50/day".
	BudgetType     string `gorm:"default:'daily'" json:"budgetType"`
	DailyBudget    string `json:"dailyBudget"`
	LifetimeBudget string `json:"lifetimeBudget"`
	Budget         string `json:"budget"`
	AmountSpent    string `json:"amountSpent"`

	Results       string `json:"results"`
	CostPerResult string `json:"costPerResult"`
	Impressions   string `json:"impressions"`
	Reach         string `json:"reach"`

	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`

	// Values keyed by custom field name (without the custom_ prefix).
	// Entries may outlive their field definition; deleting a definition
	// leaves stored values in place.
	CustomFields map[string]interface{} `gorm:"type:jsonb;serializer:json" json:"customFields"`
}
