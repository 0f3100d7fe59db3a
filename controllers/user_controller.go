package controller

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"campaignboard/config"
	"campaignboard/models"
	"campaignboard/registry"
	"campaignboard/utils"
)

// UserController manages viewer accounts and their access scope.
type UserController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewUserController(db *gorm.DB, logger *log.Logger) *UserController {
	return &UserController{DB: db, Logger: logger}
}

type UpdateCampaignAccessRequest struct {
	CampaignIDs      []uint   `json:"campaignIds"`
	ViewAllCampaigns bool     `json:"viewAllCampaigns"`
	VisibleFields    []string `json:"visibleFields"`
}

// GetUsers lists all viewer accounts.
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	var viewers []models.User
	if err := uc.DB.Where("role = ?", models.RoleViewer).Order("created_at ASC").Find(&viewers).Error; err != nil {
		uc.Logger.Printf("Failed to list viewers: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load users")
	}
	return c.JSON(utils.SuccessResponse(viewers))
}

func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	id := utils.ParseUint(c.Params("id"))

	var viewer models.User
	if err := uc.DB.Where("role = ?", models.RoleViewer).First(&viewer, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found")
	}

	// Hard delete so the email can be registered again later; a soft
	// delete would leave it held by the unique index.
	if err := uc.DB.Unscoped().Delete(&viewer).Error; err != nil {
		uc.Logger.Printf("Failed to delete user %d: %v", id, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete user")
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"deleted": id}))
}

// UpdateCampaignAccess replaces a viewer's whole access scope in one
// write: allowed campaigns, the view-all flag and the visible field
// list always change together.
func (uc *UserController) UpdateCampaignAccess(c *fiber.Ctx) error {
	id := utils.ParseUint(c.Params("id"))

	var req UpdateCampaignAccessRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	var viewer models.User
	if err := uc.DB.Where("role = ?", models.RoleViewer).First(&viewer, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found")
	}

	var customFields []models.CustomField
	if err := uc.DB.Order("created_at ASC").Find(&customFields).Error; err != nil {
		uc.Logger.Printf("Failed to load custom fields: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load field definitions")
	}
	schema := registry.ResolveSchema(customFields)

	campaignIDs := req.CampaignIDs
	if campaignIDs == nil {
		campaignIDs = []uint{}
	}

	viewer.AllowedCampaigns = campaignIDs
	viewer.ViewAllCampaigns = req.ViewAllCampaigns
	viewer.VisibleFields = registry.SanitizeVisibleFields(req.VisibleFields, schema)

	// Struct-based update so the jsonb serializer applies; Select
	// keeps zero values like viewAllCampaigns=false in the write.
	if err := uc.DB.Model(&viewer).
		Select("allowed_campaigns", "view_all_campaigns", "visible_fields").
		Updates(&viewer).Error; err != nil {
		uc.Logger.Printf("Failed to update access for user %d: %v", id, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update access")
	}

	return c.JSON(utils.SuccessResponse(&viewer))
}

// GetShareableLink returns a tokenized viewer URL for the account,
// minting the token on first request.
func (uc *UserController) GetShareableLink(c *fiber.Ctx) error {
	id := utils.ParseUint(c.Params("id"))

	var viewer models.User
	if err := uc.DB.Where("role = ?", models.RoleViewer).First(&viewer, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found")
	}

	if viewer.ShareToken == "" {
		viewer.ShareToken = uuid.NewString()
		if err := uc.DB.Model(&viewer).Update("share_token", viewer.ShareToken).Error; err != nil {
			uc.Logger.Printf("Failed to store share token for user %d: %v", id, err)
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create shareable link")
		}
	}

	link := fmt.Sprintf("%s/viewer?token=%s", config.AppConfig.FrontendURL, viewer.ShareToken)
	return c.JSON(utils.SuccessResponse(fiber.Map{"shareableLink": link}))
}
