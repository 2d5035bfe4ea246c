package routes

import (
	"fmt"
	"strings"

	"drively-server/models"
	"drively-server/storage"
	"drively-server/utils"

	"github.com/kataras/iris/v12"
)

type VerificationInput struct {
	DocumentType string `json:"documentType" validate:"required,oneof=drivers_license national_id passport"`
	Data         string `json:"data" validate:"required"` // base64 image, or an already-hosted URL
}

// SubmitVerification files an identity document for admin review. A rejected
// user may resubmit; their status returns to pending.
func SubmitVerification(ctx iris.Context) {
	userIDValue := ctx.Values().Get("userID")
	if userIDValue == nil {
		utils.CreateUnauthorized(ctx)
		return
	}
	userID := userIDValue.(uint)

	var input VerificationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	documentURL := input.Data
	if !strings.Contains(documentURL, "res.cloudinary.com") {
		publicID := fmt.Sprintf("verification/%d/%s", user.ID, input.DocumentType)
		documentURL = storage.UploadBase64Image(input.Data, publicID)
		if documentURL == "" {
			utils.JSONError(ctx, iris.StatusBadRequest, "upload_failed", "document upload failed")
			return
		}
	}

	document := models.VerificationDocument{
		UserID:       user.ID,
		DocumentType: input.DocumentType,
		DocumentURL:  documentURL,
		Status:       "pending",
	}
	if err := storage.DB.Create(&document).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	notVerified := false
	user.VerificationStatus = "pending"
	user.IsVerified = &notVerified
	if err := storage.DB.Save(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"success": true,
		"message": "Verification submitted successfully",
		"data":    document,
	})
}

// GetMyVerification returns the caller's document history and current status.
func GetMyVerification(ctx iris.Context) {
	userIDValue := ctx.Values().Get("userID")
	if userIDValue == nil {
		utils.CreateUnauthorized(ctx)
		return
	}
	userID := userIDValue.(uint)

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var documents []models.VerificationDocument
	storage.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&documents)

	ctx.JSON(iris.Map{
		"success": true,
		"data": iris.Map{
			"verificationStatus": user.VerificationStatus,
			"isVerified":         user.IsVerified,
			"documents":          documents,
		},
	})
}
