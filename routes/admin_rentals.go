package routes

import (
	"net/http"
	"strings"

	"drively-server/models"
	"drively-server/storage"
	"drively-server/utils"

	"github.com/kataras/iris/v12"
)

// AdminListRentals - GET /admin/rentals?status=&car_id=&page=&per_page=
func AdminListRentals(ctx iris.Context) {
	page, perPage := utils.Pagination(ctx)

	query := storage.DB.Model(&models.Rental{})
	if status := strings.TrimSpace(ctx.URLParamDefault("status", "")); status != "" {
		query = query.Where("status = ?", status)
	}
	if carID := ctx.URLParamIntDefault("car_id", 0); carID > 0 {
		query = query.Where("car_id = ?", carID)
	}

	var total int64
	query.Count(&total)

	var rentals []models.Rental
	if err := query.
		Preload("Car").
		Preload("Renter").
		Preload("Owner").
		Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&rentals).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, rentals, page, perPage, total)
}

type ForceRentalStatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed active completed cancelled"`
	Reason string `json:"reason"`
}

// AdminForceRentalStatus - PATCH /admin/rentals/:id/status
// Admins may set any status; the transition table does not apply to moderation.
func AdminForceRentalStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var input ForceRentalStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var rental models.Rental
	if err := storage.DB.First(&rental, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "rental not found")
		return
	}

	before := rental
	rental.Status = input.Status
	if input.Reason != "" {
		rental.Notes = strings.TrimSpace(rental.Notes + "\n[admin] " + input.Reason)
	}

	if err := storage.DB.Save(&rental).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(ctx, "rental.force_status", "rental", rental.ID, before, rental)

	ctx.JSON(iris.Map{"data": rental})
}
