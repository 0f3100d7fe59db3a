package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"campaignboard/models"
	"campaignboard/registry"
	"campaignboard/utils"
)

// CampaignController handles campaign CRUD plus the toggle and
// duplicate actions. Viewer reads are filtered through the access
// policy; every write requires an admin.
type CampaignController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewCampaignController(db *gorm.DB, logger *log.Logger) *CampaignController {
	return &CampaignController{DB: db, Logger: logger}
}

type CampaignRequest struct {
	Name           string                 `json:"name" validate:"required,max=200"`
	Status         string                 `json:"status" validate:"omitempty,oneof=active draft scheduled"`
	Delivery       string                 `json:"delivery"`
	Active         bool                   `json:"active"`
	Objective      string                 `json:"objective"`
	BidStrategy    string                 `json:"bidStrategy"`
	Placement      string                 `json:"placement"`
	TargetAudience string                 `json:"targetAudience"`
	Actions        string                 `json:"actions"`
	BudgetType     string                 `json:"budgetType" validate:"omitempty,oneof=daily lifetime"`
	DailyBudget    string                 `json:"dailyBudget"`
	LifetimeBudget string                 `json:"lifetimeBudget"`
	Budget         string                 `json:"budget"`
	AmountSpent    string                 `json:"amountSpent"`
	Results        string                 `json:"results"`
	CostPerResult  string                 `json:"costPerResult"`
	Impressions    string                 `json:"impressions"`
	Reach          string                 `json:"reach"`
	StartDate      string                 `json:"startDate"`
	EndDate        string                 `json:"endDate"`
	CustomFields   map[string]interface{} `json:"customFields"`
}

// apply copies the request onto a campaign record, filling blank
// metric columns with their display defaults.
func (r *CampaignRequest) apply(campaign *models.Campaign) {
	campaign.Name = r.Name

	campaign.Status = r.Status
	if campaign.Status == "" {
		campaign.Status = models.CampaignStatusDraft
	}

	campaign.Delivery = r.Delivery
	if campaign.Delivery == "" {
		campaign.Delivery = registry.DeriveDelivery(campaign.Status)
	}

	campaign.Active = r.Active
	campaign.Objective = r.Objective
	campaign.BidStrategy = r.BidStrategy
	campaign.Placement = r.Placement
	campaign.TargetAudience = r.TargetAudience
	campaign.Actions = r.Actions

	campaign.BudgetType = r.BudgetType
	if campaign.BudgetType == "" {
		campaign.BudgetType = models.BudgetTypeDaily
	}
	campaign.DailyBudget = r.DailyBudget
	campaign.LifetimeBudget = r.LifetimeBudget

	campaign.Budget = r.Budget
	if campaign.Budget == "" {
		campaign.Budget = registry.DeriveBudget(campaign)
	}

	campaign.AmountSpent = defaultStr(r.AmountSpent, "$0.00")
	campaign.Results = defaultStr(r.Results, registry.EmptyPlaceholder)
	campaign.CostPerResult = defaultStr(r.CostPerResult, registry.EmptyPlaceholder)
	campaign.Impressions = defaultStr(r.Impressions, registry.EmptyPlaceholder)
	campaign.Reach = defaultStr(r.Reach, registry.EmptyPlaceholder)

	campaign.StartDate = r.StartDate
	campaign.EndDate = defaultStr(r.EndDate, "Ongoing")

	campaign.CustomFields = r.CustomFields
	if campaign.CustomFields == nil {
		campaign.CustomFields = map[string]interface{}{}
	}
}

func defaultStr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func (cc *CampaignController) validateRequest(req *CampaignRequest) (int, error) {
	if err := utils.ValidateStruct(*req); err != nil {
		return fiber.StatusBadRequest, err
	}

	var defs []models.CustomField
	if err := cc.DB.Order("created_at ASC").Find(&defs).Error; err != nil {
		cc.Logger.Printf("Failed to load custom field definitions: %v", err)
		return fiber.StatusInternalServerError, errors.New("failed to load field definitions")
	}
	if err := registry.ValidateCustomValues(req.CustomFields, defs); err != nil {
		return fiber.StatusBadRequest, err
	}
	return 0, nil
}

func (cc *CampaignController) CreateCampaign(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req CampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if status, err := cc.validateRequest(&req); err != nil {
		return utils.ErrorResponse(c, status, err.Error())
	}

	campaign := models.Campaign{CreatedBy: user.ID}
	req.apply(&campaign)

	if err := cc.DB.Create(&campaign).Error; err != nil {
		cc.Logger.Printf("Failed to create campaign: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create campaign")
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(&campaign))
}

// GetCampaigns lists campaigns. Admins see everything, viewers only
// their allowed set unless view-all is granted.
func (cc *CampaignController) GetCampaigns(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var campaigns []models.Campaign
	if err := cc.DB.Order("created_at ASC").Find(&campaigns).Error; err != nil {
		cc.Logger.Printf("Failed to list campaigns: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load campaigns")
	}

	return c.JSON(utils.SuccessResponse(registry.FilterCampaigns(user, campaigns)))
}

func (cc *CampaignController) GetCampaign(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	id := utils.ParseUint(c.Params("id"))

	var campaign models.Campaign
	if err := cc.DB.First(&campaign, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found")
	}

	if !user.CanSeeCampaign(campaign.ID) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Access denied")
	}

	return c.JSON(utils.SuccessResponse(&campaign))
}

func (cc *CampaignController) UpdateCampaign(c *fiber.Ctx) error {
	id := utils.ParseUint(c.Params("id"))

	var campaign models.Campaign
	if err := cc.DB.First(&campaign, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found")
	}

	var req CampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if status, err := cc.validateRequest(&req); err != nil {
		return utils.ErrorResponse(c, status, err.Error())
	}

	req.apply(&campaign)

	if err := cc.DB.Save(&campaign).Error; err != nil {
		cc.Logger.Printf("Failed to update campaign %d: %v", id, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update campaign")
	}

	return c.JSON(utils.SuccessResponse(&campaign))
}

// ToggleCampaign flips only the active flag, everything else on the
// record is left alone.
func (cc *CampaignController) ToggleCampaign(c *fiber.Ctx) error {
	id := utils.ParseUint(c.Params("id"))

	var campaign models.Campaign
	if err := cc.DB.First(&campaign, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found")
	}

	campaign.Active = !campaign.Active
	if err := cc.DB.Model(&campaign).Update("active", campaign.Active).Error; err != nil {
		cc.Logger.Printf("Failed to toggle campaign %d: %v", id, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to toggle campaign")
	}

	return c.JSON(utils.SuccessResponse(&campaign))
}

// DuplicateCampaign clones a campaign server-side under a new name.
// Attached content is not copied.
func (cc *CampaignController) DuplicateCampaign(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	id := utils.ParseUint(c.Params("id"))

	var original models.Campaign
	if err := cc.DB.First(&original, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found")
	}

	clone := original
	clone.Model = gorm.Model{}
	clone.Name = original.Name + " (Copy)"
	clone.CreatedBy = user.ID
	clone.Active = false
	clone.Status = models.CampaignStatusDraft
	clone.Delivery = registry.DeriveDelivery(clone.Status)

	if err := cc.DB.Create(&clone).Error; err != nil {
		cc.Logger.Printf("Failed to duplicate campaign %d: %v", id, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to duplicate campaign")
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(&clone))
}

// DeleteCampaign removes the campaign and its attached content rows.
// Stored media files are left on disk for the cleanup worker.
func (cc *CampaignController) DeleteCampaign(c *fiber.Ctx) error {
	id := utils.ParseUint(c.Params("id"))

	var campaign models.Campaign
	if err := cc.DB.First(&campaign, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found")
	}

	tx := cc.DB.Begin()

	var content models.CampaignContent
	if err := tx.Where("campaign_id = ?", campaign.ID).First(&content).Error; err == nil {
		if err := tx.Where("content_id = ?", content.ID).Delete(&models.MediaAsset{}).Error; err != nil {
			tx.Rollback()
			cc.Logger.Printf("Failed to delete media for campaign %d: %v", id, err)
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete campaign content")
		}
		if err := tx.Delete(&content).Error; err != nil {
			tx.Rollback()
			cc.Logger.Printf("Failed to delete content for campaign %d: %v", id, err)
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete campaign content")
		}
	}

	if err := tx.Delete(&campaign).Error; err != nil {
		tx.Rollback()
		cc.Logger.Printf("Failed to delete campaign %d: %v", id, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete campaign")
	}

	tx.Commit()

	return c.JSON(utils.SuccessResponse(fiber.Map{"deleted": id}))
}
