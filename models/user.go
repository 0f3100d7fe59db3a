package models

import (
	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// User represents a dashboard account. Admins manage campaigns and
// provision viewer accounts; viewers get a scoped, read-only view.
type User struct {
	gorm.Model

	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"default:'viewer';not null" json:"role"`

	// Viewer access scope. AllowedCampaigns is ignored when
	// ViewAllCampaigns is set. An empty VisibleFields slice means the
	// viewer sees every field.
	AllowedCampaigns []uint   `gorm:"type:jsonb;serializer:json" json:"allowedCampaigns"`
	ViewAllCampaigns bool     `gorm:"default:false" json:"viewAllCampaigns"`
	VisibleFields    []string `gorm:"type:jsonb;serializer:json" json:"visibleFields"`

	// Token embedded in the shareable viewer URL.
	ShareToken string `gorm:"index" json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanSeeCampaign reports whether the user may read the given campaign.
// Admins and view-all viewers see everything, including campaigns
// created after their permissions were saved.
func (u *User) CanSeeCampaign(campaignID uint) bool {
	if u.IsAdmin() || u.ViewAllCampaigns {
		return true
	}
	for _, id := range u.AllowedCampaigns {
		if id == campaignID {
			return true
		}
	}
	return false
}
