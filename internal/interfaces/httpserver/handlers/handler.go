package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"coparent-api/internal/domain/user"
	"coparent-api/internal/interfaces/httpserver/middlewares"
	"coparent-api/internal/interfaces/httpserver/responses"
	"coparent-api/internal/utils/platformerrors"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// currentUser returns the user resolved by the auth middleware, or aborts with 401.
func currentUser(c *gin.Context) (*user.User, bool) {
	u, ok := middlewares.UserFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "auth-missing-002")
		return nil, false
	}
	return u, true
}

// bindJSON decodes and validates the request body, aborting with 400 on failure.
func bindJSON(c *gin.Context, validate *validator.Validate, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "request-bind-001")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, validationMessage(err), "request-validate-001")
		return false
	}
	return true
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid request body"
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gte", "lte":
		return fmt.Sprintf("%s must be between 0 and 100", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
