package routes

import (
	"net/http"
	"strings"

	"drively-server/models"
	"drively-server/storage"
	"drively-server/utils"

	"github.com/kataras/iris/v12"
)

// AdminListCars - GET /admin/cars?flagged=&q=&page=&per_page=
func AdminListCars(ctx iris.Context) {
	page, perPage := utils.Pagination(ctx)

	query := storage.DB.Model(&models.Car{})
	if flagged, err := ctx.URLParamBool("flagged"); err == nil {
		query = query.Where("is_flagged = ?", flagged)
	}
	if q := strings.TrimSpace(ctx.URLParamDefault("q", "")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(make) LIKE ? OR lower(model) LIKE ? OR lower(license_plate) LIKE ?", like, like, like)
	}

	var total int64
	query.Count(&total)

	var cars []models.Car
	if err := query.
		Preload("Owner").
		Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&cars).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, cars, page, perPage, total)
}

type FlagCarInput struct {
	IsFlagged  bool   `json:"isFlagged"`
	FlagReason string `json:"flagReason"`
	Deactivate bool   `json:"deactivate"`
}

// AdminFlagCar - PATCH /admin/cars/:id/flag
func AdminFlagCar(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var input FlagCarInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var car models.Car
	if err := storage.DB.First(&car, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "car not found")
		return
	}

	before := car
	car.IsFlagged = input.IsFlagged
	car.FlagReason = input.FlagReason
	if input.Deactivate {
		inactive := false
		car.IsActive = &inactive
	}

	if err := storage.DB.Save(&car).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(ctx, "car.flag", "car", car.ID, before, car)

	ctx.JSON(iris.Map{"data": car})
}
