package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/nandwere/stock-pos/internal/application/dto"
	"github.com/nandwere/stock-pos/internal/domain"
)

// Códigos de error de la API.
const (
	CodeInvalidBody        = "INVALID_BODY"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeInsufficientStock  = "INSUFFICIENT_STOCK"
	CodeNotFound           = "NOT_FOUND"
	CodeProductNotFound    = "PRODUCT_NOT_FOUND"
	CodeDuplicate          = "DUPLICATE"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeConflict           = "CONFLICT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeInactiveUser       = "INACTIVE_USER"
	CodePersistenceFailure = "PERSISTENCE_FAILURE"
	CodeInternal           = "INTERNAL"
)

type insufficientStockDetails struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Available   string `json:"available"`
	Requested   string `json:"requested"`
}

// mapError traduce errores de dominio a status y cuerpo HTTP. Es el único lugar que lo hace.
func mapError(c *fiber.Ctx, err error) error {
	status, body := errorResponse(err)
	return c.Status(status).JSON(body)
}

func errorResponse(err error) (int, dto.ErrorResponse) {
	var (
		ise *domain.InsufficientStockError
		ve  *domain.ValidationError
	)
	switch {
	case errors.As(err, &ise):
		return fiber.StatusBadRequest, dto.ErrorResponse{
			Code:    CodeInsufficientStock,
			Message: ise.Error(),
			Details: insufficientStockDetails{
				ProductID:   ise.ProductID,
				ProductName: ise.ProductName,
				Available:   ise.Available.String(),
				Requested:   ise.Requested.String(),
			},
		}
	case errors.As(err, &ve):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: CodeValidationFailed, Message: "datos inválidos", Details: ve.Fields}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: CodeValidationFailed, Message: err.Error()}
	case errors.Is(err, domain.ErrProductNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: CodeProductNotFound, Message: err.Error()}
	case errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrSaleNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: CodeNotFound, Message: err.Error()}
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, dto.ErrorResponse{Code: CodeEmailExists, Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: CodeDuplicate, Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: CodeConflict, Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: CodeUnauthorized, Message: "credenciales inválidas"}
	case errors.Is(err, domain.ErrInactiveUser):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: CodeInactiveUser, Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: CodeForbidden, Message: err.Error()}
	case errors.Is(err, domain.ErrPersistence):
		return fiber.StatusInternalServerError, dto.ErrorResponse{
			Code:    CodePersistenceFailure,
			Message: "no se pudo completar la operación; no se aplicó ningún cambio, puede reintentar",
		}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: CodeInternal, Message: "error interno"}
	}
}

// ErrorHandler handler de errores de fiber: errores no capturados salen con el mismo formato.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := CodeInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			code = CodeNotFound
		case fiber.StatusMethodNotAllowed, fiber.StatusBadRequest:
			code = CodeInvalidBody
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return mapError(c, err)
}
