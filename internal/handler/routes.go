package handler

import (
	"quiz-forge/internal/middleware"
	"quiz-forge/internal/service"
	"quiz-forge/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Routes bundles what RegisterRoutes mounts under /api
type Routes struct {
	Pipeline  *PipelineHandler
	Banks     *BankHandler
	Health    *HealthHandler
	Verifier  service.TokenVerifier
	Validator *validation.Validator
}

// RegisterRoutes mounts the API. Bank routes are only mounted when a verifier is configured.
func RegisterRoutes(app *fiber.App, r Routes) {
	api := app.Group("/api")

	api.Get("/health", r.Health.Health)
	api.Get("/model-info", r.Pipeline.ModelInfo)
	api.Post("/upload", r.Pipeline.Upload)
	api.Post("/export", r.Pipeline.Export)

	if r.Verifier == nil {
		api.Post("/generate", r.Pipeline.Generate)
		return
	}
	api.Post("/generate", middleware.OptionalAuth(r.Verifier), r.Pipeline.Generate)

	if r.Banks == nil {
		return
	}
	vm := middleware.NewValidationMiddleware(r.Validator)
	banks := api.Group("/banks", middleware.Protected(r.Verifier))
	banks.Post("/", r.Banks.Create)
	banks.Get("/", vm.ValidatePagination(), r.Banks.List)
	banks.Get("/:id", vm.ValidateBankID(), r.Banks.Get)
	banks.Put("/:id", vm.ValidateBankID(), r.Banks.Update)
	banks.Delete("/:id", vm.ValidateBankID(), r.Banks.Delete)
}
