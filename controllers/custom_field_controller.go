package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"campaignboard/models"
	"campaignboard/registry"
	"campaignboard/utils"
)

// CustomFieldController manages the custom field definitions that
// extend the campaign schema.
type CustomFieldController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewCustomFieldController(db *gorm.DB, logger *log.Logger) *CustomFieldController {
	return &CustomFieldController{DB: db, Logger: logger}
}

type CreateCustomFieldRequest struct {
	Name        string   `json:"name"`
	Label       string   `json:"label" validate:"required,max=100"`
	Type        string   `json:"type" validate:"required"`
	Required    bool     `json:"required"`
	Placeholder string   `json:"placeholder"`
	Description string   `json:"description"`
	Options     []string `json:"options"`
}

func (fc *CustomFieldController) GetCustomFields(c *fiber.Ctx) error {
	var fields []models.CustomField
	if err := fc.DB.Order("created_at ASC").Find(&fields).Error; err != nil {
		fc.Logger.Printf("Failed to list custom fields: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load custom fields")
	}
	return c.JSON(utils.SuccessResponse(fields))
}

// CreateCustomField stores a new definition. The storage name is
// slugged from the label when not supplied, and must not collide with
// an existing definition or a builtin column.
func (fc *CustomFieldController) CreateCustomField(c *fiber.Ctx) error {
	var req CreateCustomFieldRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	name := req.Name
	if name == "" {
		name = registry.Slugify(req.Label)
	}

	field := models.CustomField{
		Name:        name,
		Label:       req.Label,
		Type:        req.Type,
		Required:    req.Required,
		Placeholder: req.Placeholder,
		Description: req.Description,
		Options:     req.Options,
	}

	var existing []models.CustomField
	if err := fc.DB.Find(&existing).Error; err != nil {
		fc.Logger.Printf("Failed to load custom fields: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load custom fields")
	}

	if err := registry.ValidateDefinition(&field, existing); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	if err := fc.DB.Create(&field).Error; err != nil {
		fc.Logger.Printf("Failed to create custom field %q: %v", field.Name, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create custom field")
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(&field))
}

// DeleteCustomField removes a definition. Values already stored on
// campaigns under this field's name stay in place; they simply stop
// being shown once no definition resolves them.
func (fc *CustomFieldController) DeleteCustomField(c *fiber.Ctx) error {
	id := utils.ParseUint(c.Params("id"))

	var field models.CustomField
	if err := fc.DB.First(&field, id).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Custom field not found")
	}

	// Hard delete: a soft-deleted row would keep occupying the unique
	// name index and block re-creating a field under the same name.
	if err := fc.DB.Unscoped().Delete(&field).Error; err != nil {
		fc.Logger.Printf("Failed to delete custom field %d: %v", id, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete custom field")
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"deleted": id}))
}
