package routes

import (
	"fmt"
	"strings"
	"time"

	"drively-server/models"
	"drively-server/storage"
	"drively-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

type CarInput struct {
	Make         string  `json:"make" validate:"required"`
	Model        string  `json:"model" validate:"required"`
	Year         int     `json:"year" validate:"required,min=1950"`
	LicensePlate string  `json:"licensePlate" validate:"required"`
	Description  string  `json:"description"`
	Transmission string  `json:"transmission"`
	FuelType     string  `json:"fuelType"`
	Seats        int     `json:"seats" validate:"required,min=1"`
	City         string  `json:"city" validate:"required"`
	DailyRate    float64 `json:"dailyRate" validate:"required,gt=0"`
	Currency     string  `json:"currency"`
}

type CarImageInput struct {
	Data      string `json:"data" validate:"required"` // base64 data URL
	Position  int    `json:"position"`
	IsPrimary bool   `json:"isPrimary"`
}

func CreateCar(ctx iris.Context) {
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
	if !utils.HasRole(user.Roles, utils.RoleCarOwner) {
		utils.JSONError(ctx, iris.StatusForbidden, "forbidden", "car_owner role required to list cars")
		return
	}
	if user.VerificationStatus != "verified" {
		utils.JSONError(ctx, iris.StatusForbidden, "not_verified", "identity verification is required before listing cars")
		return
	}

	var input CarInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	active := true
	car := models.Car{
		OwnerID:      userID,
		Make:         input.Make,
		Model:        input.Model,
		Year:         input.Year,
		LicensePlate: strings.ToUpper(strings.TrimSpace(input.LicensePlate)),
		Description:  input.Description,
		Transmission: input.Transmission,
		FuelType:     input.FuelType,
		Seats:        input.Seats,
		City:         input.City,
		DailyRate:    input.DailyRate,
		Currency:     input.Currency,
		IsActive:     &active,
	}
	if car.Currency == "" {
		car.Currency = "USD"
	}

	if err := storage.DB.Create(&car).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "data": car})
}

func GetCar(ctx iris.Context) {
	carID := ctx.Params().GetUintDefault("id", 0)
	if carID == 0 {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid car id")
		return
	}

	var car models.Car
	if err := storage.DB.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Owner").
		First(&car, carID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": car})
}

func UpdateCar(ctx iris.Context) {
	_, car, ok := loadOwnedCar(ctx)
	if !ok {
		return
	}

	var input CarInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	car.Make = input.Make
	car.Model = input.Model
	car.Year = input.Year
	car.LicensePlate = strings.ToUpper(strings.TrimSpace(input.LicensePlate))
	car.Description = input.Description
	car.Transmission = input.Transmission
	car.FuelType = input.FuelType
	car.Seats = input.Seats
	car.City = input.City
	car.DailyRate = input.DailyRate
	if input.Currency != "" {
		car.Currency = input.Currency
	}

	if err := storage.DB.Save(&car).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": car})
}

// SetCarActive toggles whether a car accepts new bookings.
func SetCarActive(ctx iris.Context) {
	_, car, ok := loadOwnedCar(ctx)
	if !ok {
		return
	}

	var input struct {
		IsActive bool `json:"isActive"`
	}
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	car.IsActive = &input.IsActive
	if err := storage.DB.Save(&car).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": car})
}

// DeleteCar removes a listing. A car with live rentals is deactivated instead
// so existing bookings keep their reference.
func DeleteCar(ctx iris.Context) {
	_, car, ok := loadOwnedCar(ctx)
	if !ok {
		return
	}

	var live int64
	storage.DB.Model(&models.Rental{}).
		Where("car_id = ? AND status IN ?", car.ID, models.RentalLiveStatuses).
		Count(&live)
	if live > 0 {
		inactive := false
		car.IsActive = &inactive
		storage.DB.Save(&car)
		ctx.JSON(iris.Map{
			"success": true,
			"message": fmt.Sprintf("car has %d live rentals and was deactivated instead of deleted", live),
			"data":    car,
		})
		return
	}

	storage.DB.Where("car_id = ?", car.ID).Delete(&models.CarImage{})
	if err := storage.DB.Delete(&car).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "message": "Car deleted"})
}

func GetOwnerCars(ctx iris.Context) {
	userIDValue := ctx.Values().Get("userID")
	if userIDValue == nil {
		utils.CreateUnauthorized(ctx)
		return
	}
	userID := userIDValue.(uint)

	page, perPage := utils.Pagination(ctx)

	query := storage.DB.Model(&models.Car{}).Where("owner_id = ?", userID)

	var total int64
	query.Count(&total)

	var cars []models.Car
	if err := query.
		Preload("Images").
		Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&cars).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, cars, page, perPage, total)
}

// SearchCars is the public browse endpoint: active cars only, optional
// city/seats/price filters and a free-text query over make and model.
func SearchCars(ctx iris.Context) {
	page, perPage := utils.Pagination(ctx)

	query := storage.DB.Model(&models.Car{}).Where("is_active = ?", true)

	if city := strings.TrimSpace(ctx.URLParamDefault("city", "")); city != "" {
		query = query.Where("lower(city) = lower(?)", city)
	}
	if seats := ctx.URLParamIntDefault("seats", 0); seats > 0 {
		query = query.Where("seats >= ?", seats)
	}
	if minPrice := ctx.URLParamFloat64Default("min_price", 0); minPrice > 0 {
		query = query.Where("daily_rate >= ?", minPrice)
	}
	if maxPrice := ctx.URLParamFloat64Default("max_price", 0); maxPrice > 0 {
		query = query.Where("daily_rate <= ?", maxPrice)
	}
	if q := strings.TrimSpace(ctx.URLParamDefault("q", "")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(make) LIKE ? OR lower(model) LIKE ?", like, like)
	}

	var total int64
	query.Count(&total)

	var cars []models.Car
	if err := query.
		Preload("Images").
		Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&cars).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, cars, page, perPage, total)
}

func AddCarImage(ctx iris.Context) {
	userID, car, ok := loadOwnedCar(ctx)
	if !ok {
		return
	}

	var input CarImageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	publicID := fmt.Sprintf("cars/%d/%d-%d", car.ID, userID, time.Now().UnixNano())
	url := storage.UploadBase64Image(input.Data, publicID)
	if url == "" {
		utils.JSONError(ctx, iris.StatusBadRequest, "upload_failed", "image upload failed")
		return
	}

	if input.IsPrimary {
		storage.DB.Model(&models.CarImage{}).Where("car_id = ?", car.ID).Update("is_primary", false)
	}

	image := models.CarImage{
		CarID:     car.ID,
		URL:       url,
		Position:  input.Position,
		IsPrimary: input.IsPrimary,
	}
	if err := storage.DB.Create(&image).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "data": image})
}

// UpdateCarImagePosition moves an image within the listing's gallery order.
func UpdateCarImagePosition(ctx iris.Context) {
	_, car, ok := loadOwnedCar(ctx)
	if !ok {
		return
	}

	imageID := ctx.Params().GetUintDefault("imageID", 0)

	var input struct {
		Position int `json:"position" validate:"gte=0"`
	}
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var image models.CarImage
	if err := storage.DB.Where("id = ? AND car_id = ?", imageID, car.ID).First(&image).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	image.Position = input.Position
	if err := storage.DB.Save(&image).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": image})
}

func SetPrimaryCarImage(ctx iris.Context) {
	_, car, ok := loadOwnedCar(ctx)
	if !ok {
		return
	}

	imageID := ctx.Params().GetUintDefault("imageID", 0)

	var image models.CarImage
	if err := storage.DB.Where("id = ? AND car_id = ?", imageID, car.ID).First(&image).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	storage.DB.Model(&models.CarImage{}).Where("car_id = ?", car.ID).Update("is_primary", false)
	image.IsPrimary = true
	if err := storage.DB.Save(&image).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": image})
}

func DeleteCarImage(ctx iris.Context) {
	_, car, ok := loadOwnedCar(ctx)
	if !ok {
		return
	}

	imageID := ctx.Params().GetUintDefault("imageID", 0)

	if err := storage.DB.Where("id = ? AND car_id = ?", imageID, car.ID).Delete(&models.CarImage{}).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "message": "Image deleted"})
}

// loadOwnedCar resolves the {id} car and enforces that the caller owns it.
// On failure it writes the error response and returns ok=false.
func loadOwnedCar(ctx iris.Context) (uint, models.Car, bool) {
	var car models.Car

	userIDValue := ctx.Values().Get("userID")
	if userIDValue == nil {
		utils.CreateUnauthorized(ctx)
		return 0, car, false
	}
	userID := userIDValue.(uint)

	carID := ctx.Params().GetUintDefault("id", 0)
	if carID == 0 {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid car id")
		return userID, car, false
	}

	if err := storage.DB.First(&car, carID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return userID, car, false
	}
	if car.OwnerID != userID {
		utils.CreateForbidden(ctx)
		return userID, car, false
	}

	return userID, car, true
}
