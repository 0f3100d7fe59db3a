package controller

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"campaignboard/models"
	"campaignboard/utils"
)

// ContentController manages the creative material attached to
// campaigns: external links and uploaded media files.
type ContentController struct {
	DB     *gorm.DB
	Store  *utils.MediaStore
	Logger *logrus.Logger
}

func NewContentController(db *gorm.DB, store *utils.MediaStore, logger *logrus.Logger) *ContentController {
	return &ContentController{DB: db, Store: store, Logger: logger}
}

type SaveLinksRequest struct {
	YoutubeURL  string `json:"youtubeUrl"`
	FacebookURL string `json:"facebookUrl"`
	Description string `json:"description"`
}

// contentResponse augments the stored row with the derived YouTube
// embed URL. The raw link is always kept as submitted.
func contentResponse(content *models.CampaignContent) fiber.Map {
	return fiber.Map{
		"id":              content.ID,
		"campaignId":      content.CampaignID,
		"youtubeUrl":      content.YoutubeURL,
		"youtubeEmbedUrl": utils.YoutubeEmbedURL(content.YoutubeURL),
		"facebookUrl":     content.FacebookURL,
		"description":     content.Description,
		"media":           content.Media,
	}
}

func (tc *ContentController) loadContent(campaignID uint) (*models.CampaignContent, error) {
	var content models.CampaignContent
	err := tc.DB.Preload("Media").Where("campaign_id = ?", campaignID).First(&content).Error
	if err != nil {
		return nil, err
	}
	return &content, nil
}

// GetContent returns the content attached to a campaign. A campaign
// without content is not an error: data is simply null.
func (tc *ContentController) GetContent(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	campaignID := utils.ParseUint(c.Params("campaignId"))

	var campaign models.Campaign
	if err := tc.DB.First(&campaign, campaignID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found")
	}
	if !user.CanSeeCampaign(campaign.ID) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Access denied")
	}

	content, err := tc.loadContent(campaignID)
	if err != nil {
		return c.JSON(utils.SuccessResponse(nil))
	}
	return c.JSON(utils.SuccessResponse(contentResponse(content)))
}

// SaveLinks replaces the campaign's link fields, creating the content
// row on first save.
func (tc *ContentController) SaveLinks(c *fiber.Ctx) error {
	campaignID := utils.ParseUint(c.Params("campaignId"))

	var campaign models.Campaign
	if err := tc.DB.First(&campaign, campaignID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found")
	}

	var req SaveLinksRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	content, err := tc.loadContent(campaignID)
	if err != nil {
		content = &models.CampaignContent{CampaignID: campaignID}
	}

	content.YoutubeURL = req.YoutubeURL
	content.FacebookURL = req.FacebookURL
	content.Description = req.Description

	// Media rows are managed separately, keep them out of the save.
	content.Media = nil
	if err := tc.DB.Save(content).Error; err != nil {
		tc.Logger.WithError(err).WithField("campaign_id", campaignID).Error("failed to save content links")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save links")
	}

	if reloaded, err := tc.loadContent(campaignID); err == nil {
		content = reloaded
	}
	return c.JSON(utils.SuccessResponse(contentResponse(content)))
}

// UploadMedia accepts a multipart batch of media files plus the
// current link fields. The batch is all-or-nothing: every file is
// classified and staged before any database write, and a failure
// anywhere leaves the stored media untouched.
func (tc *ContentController) UploadMedia(c *fiber.Ctx) error {
	campaignID := utils.ParseUint(c.Params("campaignId"))

	var campaign models.Campaign
	if err := tc.DB.First(&campaign, campaignID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid multipart form")
	}
	files := form.File["media"]

	// Classify everything up front so a bad file rejects the whole
	// batch before anything is written.
	types := make([]string, len(files))
	for i, fh := range files {
		mediaType, err := utils.ClassifyMedia(fh.Header.Get("Content-Type"))
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
		}
		types[i] = mediaType
	}

	content, loadErr := tc.loadContent(campaignID)
	if loadErr != nil {
		content = &models.CampaignContent{CampaignID: campaignID}
	}

	content.YoutubeURL = formValue(form, "youtubeUrl", content.YoutubeURL)
	content.FacebookURL = formValue(form, "facebookUrl", content.FacebookURL)
	content.Description = formValue(form, "description", content.Description)

	// Stage all files on disk first.
	stored := make([]string, 0, len(files))
	cleanup := func() {
		for _, name := range stored {
			if err := tc.Store.Remove(name); err != nil {
				tc.Logger.WithError(err).WithField("file", name).Warn("failed to remove staged file")
			}
		}
	}
	for _, fh := range files {
		name, err := tc.Store.Save(c, fh)
		if err != nil {
			cleanup()
			tc.Logger.WithError(err).Error("failed to stage upload")
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to store uploaded files")
		}
		stored = append(stored, name)
	}

	tx := tc.DB.Begin()

	content.Media = nil
	if err := tx.Save(content).Error; err != nil {
		tx.Rollback()
		cleanup()
		tc.Logger.WithError(err).WithField("campaign_id", campaignID).Error("failed to save content")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save content")
	}

	for i, fh := range files {
		asset := models.MediaAsset{
			ContentID:    content.ID,
			Type:         types[i],
			URL:          tc.Store.URLFor(stored[i]),
			OriginalName: fh.Filename,
			StoredName:   stored[i],
		}
		if err := tx.Create(&asset).Error; err != nil {
			tx.Rollback()
			cleanup()
			tc.Logger.WithError(err).WithField("file", fh.Filename).Error("failed to record media asset")
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save uploaded files")
		}
	}

	tx.Commit()

	content, err = tc.loadContent(campaignID)
	if err != nil {
		tc.Logger.WithError(err).WithField("campaign_id", campaignID).Error("failed to reload content")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load content")
	}
	return c.JSON(utils.SuccessResponse(contentResponse(content)))
}

// DeleteMedia removes one asset and its stored file.
func (tc *ContentController) DeleteMedia(c *fiber.Ctx) error {
	campaignID := utils.ParseUint(c.Params("campaignId"))
	mediaID := utils.ParseUint(c.Params("mediaId"))

	content, err := tc.loadContent(campaignID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Content not found")
	}

	var asset models.MediaAsset
	if err := tc.DB.Where("content_id = ?", content.ID).First(&asset, mediaID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Media not found")
	}

	if err := tc.DB.Delete(&asset).Error; err != nil {
		tc.Logger.WithError(err).WithField("media_id", mediaID).Error("failed to delete media asset")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete media")
	}

	if err := tc.Store.Remove(asset.StoredName); err != nil {
		tc.Logger.WithError(err).WithField("file", asset.StoredName).Warn("failed to remove media file")
	}

	content, err = tc.loadContent(campaignID)
	if err != nil {
		return c.JSON(utils.SuccessResponse(nil))
	}
	return c.JSON(utils.SuccessResponse(contentResponse(content)))
}

func formValue(form *multipart.Form, key, current string) string {
	vals, ok := form.Value[key]
	if !ok || len(vals) == 0 {
		return current
	}
	return vals[0]
}
