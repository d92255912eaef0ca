package handler

import (
	"quiz-forge/internal/domain"
	"quiz-forge/internal/dto"
	"quiz-forge/internal/middleware"
	"quiz-forge/internal/service"
	"quiz-forge/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// BankHandler exposes the owner's question banks. All routes require authentication.
type BankHandler struct {
	service   service.BankService
	validator *validation.Validator
}

// NewBankHandler creates a new BankHandler instance
func NewBankHandler(service service.BankService, validator *validation.Validator) *BankHandler {
	return &BankHandler{service: service, validator: validator}
}

func (h *BankHandler) parseBody(c *fiber.Ctx) (*dto.BankRequest, error) {
	var req dto.BankRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.Struct(&req); len(errs) > 0 {
		return nil, errs
	}
	return &req, nil
}

// Create godoc
// @Summary Create a question bank
// @Tags banks
// @Accept json
// @Produce json
// @Param request body dto.BankRequest true "Bank"
// @Success 201 {object} dto.BankResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Security ApiKeyAuth
// @Router /banks [post]
func (h *BankHandler) Create(c *fiber.Ctx) error {
	req, err := h.parseBody(c)
	if err != nil {
		return err
	}
	resp, err := h.service.Create(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Get godoc
// @Summary Get a question bank
// @Tags banks
// @Produce json
// @Param id path string true "Bank ID"
// @Success 200 {object} dto.BankResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Security ApiKeyAuth
// @Router /banks/{id} [get]
func (h *BankHandler) Get(c *fiber.Ctx) error {
	resp, err := h.service.Get(c.UserContext(), middleware.UserID(c), bankID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// List godoc
// @Summary List the caller's question banks
// @Tags banks
// @Produce json
// @Param limit query int false "Page size (1-100)" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.BankListResponse
// @Security ApiKeyAuth
// @Router /banks [get]
func (h *BankHandler) List(c *fiber.Ctx) error {
	limit, _ := c.Locals(middleware.LimitKey).(int)
	offset, _ := c.Locals(middleware.OffsetKey).(int)
	resp, err := h.service.List(c.UserContext(), middleware.UserID(c), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Update godoc
// @Summary Replace a question bank
// @Tags banks
// @Accept json
// @Produce json
// @Param id path string true "Bank ID"
// @Param request body dto.BankRequest true "Bank"
// @Success 200 {object} dto.BankResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Security ApiKeyAuth
// @Router /banks/{id} [put]
func (h *BankHandler) Update(c *fiber.Ctx) error {
	req, err := h.parseBody(c)
	if err != nil {
		return err
	}
	resp, err := h.service.Update(c.UserContext(), middleware.UserID(c), bankID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Delete godoc
// @Summary Delete a question bank
// @Tags banks
// @Param id path string true "Bank ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Security ApiKeyAuth
// @Router /banks/{id} [delete]
func (h *BankHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), middleware.UserID(c), bankID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func bankID(c *fiber.Ctx) string {
	if id, ok := c.Locals(middleware.BankIDKey).(string); ok {
		return id
	}
	return c.Params("id")
}
