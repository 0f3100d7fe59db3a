package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	controller "campaignboard/controllers"
	"campaignboard/middleware"
	"campaignboard/utils"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	authLogger := log.New(os.Stdout, "AUTH: ", log.Ldate|log.Ltime|log.Lshortfile)

	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public auth endpoints (no authentication required)
	auth.Post("/setup-admin", controller.SetupAdmin)
	auth.Post("/login", middleware.LoginRateLimiter(), controller.Login)

	// Protected auth endpoints (require valid JWT)
	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Get("/me", controller.GetCurrentUser)
	protectedAuth.Post("/register", middleware.AdminOnly(), controller.Register)

	authLogger.Println("Authentication routes initialized successfully")
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB, store *utils.MediaStore) {
	campaignController := controller.NewCampaignController(db, log.New(os.Stdout, "CAMPAIGN: ", log.LstdFlags))
	fieldController := controller.NewCustomFieldController(db, log.New(os.Stdout, "FIELDS: ", log.LstdFlags))
	userController := controller.NewUserController(db, log.New(os.Stdout, "USERS: ", log.LstdFlags))
	contentController := controller.NewContentController(db, store, logrus.StandardLogger())

	api := app.Group("", middleware.Protected(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Campaign routes. Reads are policy-filtered per viewer, writes
	// are admin only.
	campaign := api.Group("/campaigns")
	campaign.Get("/", campaignController.GetCampaigns)
	campaign.Get("/:id", campaignController.GetCampaign)
	campaign.Post("/", middleware.AdminOnly(), campaignController.CreateCampaign)
	campaign.Put("/:id", middleware.AdminOnly(), campaignController.UpdateCampaign)
	campaign.Patch("/:id/toggle", middleware.AdminOnly(), campaignController.ToggleCampaign)
	campaign.Post("/:id/duplicate", middleware.AdminOnly(), campaignController.DuplicateCampaign)
	campaign.Delete("/:id", middleware.AdminOnly(), campaignController.DeleteCampaign)

	// Custom field definitions
	fields := api.Group("/custom-fields")
	fields.Get("/", fieldController.GetCustomFields)
	fields.Post("/", middleware.AdminOnly(), fieldController.CreateCustomField)
	fields.Delete("/:id", middleware.AdminOnly(), fieldController.DeleteCustomField)

	// Viewer account management
	users := api.Group("/users", middleware.AdminOnly())
	users.Get("/", userController.GetUsers)
	users.Delete("/:id", userController.DeleteUser)
	users.Put("/:id/campaigns", userController.UpdateCampaignAccess)
	users.Get("/:id/shareable-link", userController.GetShareableLink)

	// Campaign content and media
	content := api.Group("/campaign-content")
	content.Get("/:campaignId", contentController.GetContent)
	content.Put("/:campaignId/links", middleware.AdminOnly(), contentController.SaveLinks)
	content.Post("/:campaignId", middleware.AdminOnly(), contentController.UploadMedia)
	content.Delete("/:campaignId/media/:mediaId", middleware.AdminOnly(), contentController.DeleteMedia)

	log.Println("API routes initialized successfully")
}

func SetupRoutes(app *fiber.App, db *gorm.DB, store *utils.MediaStore) {
	// Setup health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Serve uploaded media
	app.Static("/uploads", store.Dir())

	// Setup auth routes
	SetupAuthRoutes(app, db)

	// Setup API routes
	SetupAPIRoutes(app, db, store)

	// Setup 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "The requested resource was not found",
		})
	})
}
