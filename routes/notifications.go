package routes

import (
	"time"

	"drively-server/models"
	"drively-server/storage"
	"drively-server/utils"

	"github.com/kataras/iris/v12"
)

func GetUserNotifications(ctx iris.Context) {
	userIDValue := ctx.Values().Get("userID")
	if userIDValue == nil {
		utils.CreateUnauthorized(ctx)
		return
	}
	userID := userIDValue.(uint)

	page, perPage := utils.Pagination(ctx)

	query := storage.DB.Model(&models.Notification{}).Where("user_id = ?", userID)

	var total int64
	query.Count(&total)

	var notifications []models.Notification
	if err := query.Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&notifications).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, notifications, page, perPage, total)
}

func MarkNotificationAsRead(ctx iris.Context) {
	userIDValue := ctx.Values().Get("userID")
	if userIDValue == nil {
		utils.CreateUnauthorized(ctx)
		return
	}
	userID := userIDValue.(uint)

	notificationID := ctx.Params().GetUintDefault("id", 0)

	var notification models.Notification
	if err := storage.DB.Where("id = ? AND user_id = ?", notificationID, userID).First(&notification).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	now := time.Now()
	notification.IsRead = true
	notification.ReadAt = &now
	if err := storage.DB.Save(&notification).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": notification})
}
