package routes

import (
	"time"

	"drively-server/models"
	"drively-server/storage"
	"drively-server/utils"

	"github.com/kataras/iris/v12"
)

type MaintenanceInput struct {
	CarID       uint    `json:"carID" validate:"required"`
	ServiceType string  `json:"serviceType" validate:"required"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost" validate:"gte=0"`
	OdometerKM  int     `json:"odometerKM" validate:"gte=0"`
	ServicedAt  string  `json:"servicedAt" validate:"required"`
}

func CreateMaintenanceRecord(ctx iris.Context) {
	userIDValue := ctx.Values().Get("userID")
	if userIDValue == nil {
		utils.CreateUnauthorized(ctx)
		return
	}
	userID := userIDValue.(uint)

	var input MaintenanceInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var car models.Car
	if err := storage.DB.First(&car, input.CarID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if car.OwnerID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	servicedAt, err := time.Parse("2006-01-02", input.ServicedAt)
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_date", "servicedAt must be YYYY-MM-DD")
		return
	}

	record := models.MaintenanceRecord{
		CarID:       car.ID,
		OwnerID:     userID,
		ServiceType: input.ServiceType,
		Description: input.Description,
		Cost:        input.Cost,
		OdometerKM:  input.OdometerKM,
		ServicedAt:  servicedAt,
	}
	if err := storage.DB.Create(&record).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "data": record})
}

func GetCarMaintenanceRecords(ctx iris.Context) {
	userIDValue := ctx.Values().Get("userID")
	if userIDValue == nil {
		utils.CreateUnauthorized(ctx)
		return
	}
	userID := userIDValue.(uint)

	carID := ctx.Params().GetUintDefault("id", 0)

	var car models.Car
	if err := storage.DB.First(&car, carID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if car.OwnerID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	var records []models.MaintenanceRecord
	storage.DB.Where("car_id = ?", carID).Order("serviced_at DESC").Find(&records)

	ctx.JSON(iris.Map{"success": true, "data": records})
}

func DeleteMaintenanceRecord(ctx iris.Context) {
	userIDValue := ctx.Values().Get("userID")
	if userIDValue == nil {
		utils.CreateUnauthorized(ctx)
		return
	}
	userID := userIDValue.(uint)

	recordID := ctx.Params().GetUintDefault("id", 0)

	var record models.MaintenanceRecord
	if err := storage.DB.First(&record, recordID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if record.OwnerID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	if err := storage.DB.Delete(&record).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "message": "Maintenance record deleted"})
}
