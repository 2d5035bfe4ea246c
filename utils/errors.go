package utils

import (
	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

func JSONError(ctx iris.Context, status int, code, message string) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{"error": code, "message": message})
}

func CreateError(status int, title string, detail string, ctx iris.Context) {
	ctx.StopWithJSON(status, iris.Map{"title": title, "detail": detail, "status": status})
}

func CreateInternalServerError(ctx iris.Context) {
	JSONError(ctx, iris.StatusInternalServerError, "server_error", "an internal server error occurred")
}

func CreateNotFound(ctx iris.Context) {
	JSONError(ctx, iris.StatusNotFound, "not_found", "resource not found")
}

func CreateForbidden(ctx iris.Context) {
	JSONError(ctx, iris.StatusForbidden, "forbidden", "you are not allowed to perform this action")
}

func CreateUnauthorized(ctx iris.Context) {
	JSONError(ctx, iris.StatusUnauthorized, "unauthenticated", "user not authenticated")
}

func CreateEmailAlreadyRegistered(ctx iris.Context) {
	JSONError(ctx, iris.StatusConflict, "email_taken", "email already registered")
}

type validationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Value string `json:"value"`
}

// HandleValidationErrors turns validator errors into a field-level 400; any
// other read error becomes a generic bad-request.
func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		out := make([]validationError, 0, len(errs))
		for _, e := range errs {
			out = append(out, validationError{
				Field: e.Field(),
				Tag:   e.Tag(),
				Value: e.Param(),
			})
		}
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "validation_error", "message": "validation failed", "fields": out})
		return
	}

	JSONError(ctx, iris.StatusBadRequest, "invalid_payload", "invalid request body")
}
