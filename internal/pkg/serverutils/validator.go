package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation and converts failures into a 400 ApiError
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return NewApiError(fiber.StatusBadRequest, "invalid request payload")
		}

		messages := make([]string, 0, len(validationErrors))
		for _, fieldErr := range validationErrors {
			messages = append(messages, fmt.Sprintf(
				"field '%s' failed on the '%s' rule",
				fieldErr.Field(),
				fieldErr.Tag(),
			))
		}
		return NewApiError(fiber.StatusBadRequest, strings.Join(messages, "; "))
	}
	return nil
}
