package handler

import (
	"errors"
	"net/http"
	"reflect"

	"retailpos/internal/apierror"
	"retailpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// actorFrom extracts the acting user's identity. Authentication lives in
// front of this service; by the time a request arrives the actor is a
// pre-resolved UUID in the X-Actor-ID header (absent for anonymous calls).
func actorFrom(c *gin.Context) *uuid.UUID {
	raw := c.GetHeader("X-Actor-ID")
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// respondServiceError translates the stock engine's typed errors into
// transport-level responses. Kinds stay distinguishable all the way to the
// client: retryable conflicts map to 409/429-class codes, business-invalid
// input to 400/404.
func respondServiceError(c *gin.Context, err error) {
	var (
		lockErr    *service.LockTimeoutError
		notFound   *service.VariantNotFoundError
		outOfStock *service.InsufficientStockError
		storageErr *service.StorageError
	)
	switch {
	case errors.Is(err, service.ErrEmptyOperation):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.As(err, &outOfStock):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.As(err, &lockErr):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.As(err, &storageErr):
		c.JSON(http.StatusInternalServerError, apierror.New("Storage failure, safe to retry"))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}
