package models

import (
	"gorm.io/gorm"
)

// Media asset types
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// CampaignContent holds the creative material attached to a campaign.
// One row per campaign, created lazily on first save.
type CampaignContent struct {
	gorm.Model

	CampaignID  uint   `gorm:"uniqueIndex;not null" json:"campaignId"`
	YoutubeURL  string `json:"youtubeUrl"`
	FacebookURL string `json:"facebookUrl"`
	Description string `json:"description"`

	Media []MediaAsset `gorm:"foreignKey:ContentID" json:"media"`
}

// MediaAsset is one uploaded image or video. URL points at the
// locally served uploads directory.
type MediaAsset struct {
	gorm.Model

	ContentID    uint   `gorm:"index;not null" json:"contentId"`
	Type         string `gorm:"not null" json:"type"`
	URL          string `gorm:"not null" json:"url"`
	OriginalName string `json:"originalName"`
	StoredName   string `gorm:"index" json:"-"`
}
