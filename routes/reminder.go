package routes

import (
	"time"

	"drively-server/models"
	"drively-server/storage"
	"drively-server/utils"

	"github.com/kataras/iris/v12"
)

type ReminderInput struct {
	CarID *uint  `json:"carID"`
	Title string `json:"title" validate:"required,max=120"`
	Notes string `json:"notes"`
	DueAt string `json:"dueAt" validate:"required"`
}

func CreateReminder(ctx iris.Context) {
	userIDValue := ctx.Values().Get("userID")
	if userIDValue == nil {
		utils.CreateUnauthorized(ctx)
		return
	}
	userID := userIDValue.(uint)

	var input ReminderInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	dueAt, err := time.Parse(time.RFC3339, input.DueAt)
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_date", "dueAt must be RFC3339")
		return
	}

	if input.CarID != nil {
		var car models.Car
		if err := storage.DB.First(&car, *input.CarID).Error; err != nil {
			utils.CreateNotFound(ctx)
			return
		}
		if car.OwnerID != userID {
			utils.CreateForbidden(ctx)
			return
		}
	}

	reminder := models.Reminder{
		UserID: userID,
		CarID:  input.CarID,
		Title:  input.Title,
		Notes:  input.Notes,
		DueAt:  dueAt,
	}
	if err := storage.DB.Create(&reminder).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "data": reminder})
}

func GetUserReminders(ctx iris.Context) {
	userIDValue := ctx.Values().Get("userID")
	if userIDValue == nil {
		utils.CreateUnauthorized(ctx)
		return
	}
	userID := userIDValue.(uint)

	query := storage.DB.Where("user_id = ?", userID)
	if done, err := ctx.URLParamBool("done"); err == nil {
		query = query.Where("is_done = ?", done)
	}

	var reminders []models.Reminder
	query.Order("due_at ASC").Find(&reminders)

	ctx.JSON(iris.Map{"success": true, "data": reminders})
}

func CompleteReminder(ctx iris.Context) {
	userIDValue := ctx.Values().Get("userID")
	if userIDValue == nil {
		utils.CreateUnauthorized(ctx)
		return
	}
	userID := userIDValue.(uint)

	reminderID := ctx.Params().GetUintDefault("id", 0)

	var reminder models.Reminder
	if err := storage.DB.Where("id = ? AND user_id = ?", reminderID, userID).First(&reminder).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	reminder.IsDone = true
	if err := storage.DB.Save(&reminder).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": reminder})
}

func DeleteReminder(ctx iris.Context) {
	userIDValue := ctx.Values().Get("userID")
	if userIDValue == nil {
		utils.CreateUnauthorized(ctx)
		return
	}
	userID := userIDValue.(uint)

	reminderID := ctx.Params().GetUintDefault("id", 0)

	if err := storage.DB.Where("id = ? AND user_id = ?", reminderID, userID).Delete(&models.Reminder{}).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "message": "Reminder deleted"})
}
