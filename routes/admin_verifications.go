package routes

import (
	"net/http"
	"time"

	"drively-server/models"
	"drively-server/services"
	"drively-server/storage"
	"drively-server/utils"

	"github.com/kataras/iris/v12"
)

// AdminListVerifications - GET /admin/verifications?status=&page=&per_page=
func AdminListVerifications(ctx iris.Context) {
	page, perPage := utils.Pagination(ctx)

	status := ctx.URLParamDefault("status", "pending")
	query := storage.DB.Model(&models.VerificationDocument{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var documents []models.VerificationDocument
	if err := query.Order("created_at ASC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&documents).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, documents, page, perPage, total)
}

type ReviewVerificationInput struct {
	Status    string `json:"status" validate:"required,oneof=verified rejected"`
	Notes     string `json:"notes"`
	GrantRole string `json:"grantRole" validate:"omitempty,oneof=renter car_owner"`
}

// applyVerificationReview mutates the user to reflect a review outcome.
// Approval with a role grants it idempotently and makes it the active role.
func applyVerificationReview(user *models.User, status, grantRole string) {
	user.VerificationStatus = status
	approved := status == "verified"
	user.IsVerified = &approved

	if approved && grantRole != "" {
		user.Roles = utils.GrantRole(user.Roles, grantRole)
		user.ActiveRole = grantRole
	}
}

// AdminReviewVerification - POST /admin/users/:id/verify
// Approves or rejects a user's submitted documents. Approval may grant a role;
// granting an already-held role is a no-op, and the granted role becomes active.
func AdminReviewVerification(ctx iris.Context) {
	adminIDValue := ctx.Values().Get("userID")
	if adminIDValue == nil {
		utils.CreateUnauthorized(ctx)
		return
	}
	adminID := adminIDValue.(uint)

	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var input ReviewVerificationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "user not found")
		return
	}

	before := user
	applyVerificationReview(&user, input.Status, input.GrantRole)

	if err := storage.DB.Save(&user).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	// Stamp the user's pending documents with the review outcome
	now := time.Now()
	storage.DB.Model(&models.VerificationDocument{}).
		Where("user_id = ? AND status = ?", user.ID, "pending").
		Updates(map[string]interface{}{
			"status":      input.Status,
			"reviewed_by": adminID,
			"reviewed_at": now,
			"notes":       input.Notes,
		})

	utils.Audit(ctx, "user.verify", "user", user.ID, before, user)

	notification := models.Notification{
		UserID:  user.ID,
		Type:    "verification_reviewed",
		Title:   "Identity Verification",
		Message: "Your identity documents were " + input.Status,
		RefType: "verification",
		RefID:   user.ID,
	}
	storage.DB.Create(&notification)

	notificationService := services.NewNotificationService()
	go notificationService.SendVerificationResultNotification(user.ID, input.Status)

	ctx.JSON(iris.Map{"data": iris.Map{"user": user}})
}
