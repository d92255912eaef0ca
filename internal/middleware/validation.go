package middleware

import (
	"strconv"

	"quiz-forge/internal/domain"
	"quiz-forge/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	BankIDKey = "validated_bank_id"
	LimitKey  = "validated_limit"
	OffsetKey = "validated_offset"

	defaultLimit = 20
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(v *validation.Validator) *ValidationMiddleware {
	return &ValidationMiddleware{validator: v}
}

// ValidateBankID checks the :id path parameter
func (vm *ValidationMiddleware) ValidateBankID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if errs := vm.validator.ValidateBankID(id); len(errs) > 0 {
			return errs
		}
		c.Locals(BankIDKey, id)
		return c.Next()
	}
}

// ValidatePagination parses limit and offset query parameters, defaulting to 20 and 0.
func (vm *ValidationMiddleware) ValidatePagination() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := queryInt(c, "limit", defaultLimit)
		if err != nil {
			return domain.ValidationErrors{domain.NewInvalidFormatError("limit", c.Query("limit"))}
		}
		offset, err := queryInt(c, "offset", 0)
		if err != nil {
			return domain.ValidationErrors{domain.NewInvalidFormatError("offset", c.Query("offset"))}
		}
		if errs := vm.validator.ValidatePage(limit, offset); len(errs) > 0 {
			return errs
		}
		c.Locals(LimitKey, limit)
		c.Locals(OffsetKey, offset)
		return c.Next()
	}
}

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
