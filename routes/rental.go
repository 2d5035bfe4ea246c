package routes

import (
	"errors"
	"fmt"
	"time"

	"drively-server/models"
	"drively-server/services"
	"drively-server/storage"
	"drively-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

type RentalBookingRequest struct {
	CarID          uint   `json:"carID" validate:"required"`
	OwnerID        uint   `json:"ownerID" validate:"required"`
	RenterID       uint   `json:"renterID" validate:"required"`
	StartDate      string `json:"startDate" validate:"required"`
	EndDate        string `json:"endDate" validate:"required"`
	PickupLocation string `json:"pickupLocation"`
	ReturnLocation string `json:"returnLocation"`
	Notes          string `json:"notes"`
}

type RentalStatusInput struct {
	Status string `json:"status" validate:"required"`
}

var errRentalConflict = errors.New("rental dates conflict")

// rentalsOverlap reports whether two [start, end) rental intervals intersect.
// Adjacent rentals (one ends the day the other starts) do not conflict.
func rentalsOverlap(existingStart, existingEnd, start, end time.Time) bool {
	return existingStart.Before(end) && existingEnd.After(start)
}

// validateRentalDates enforces end > start and a start no earlier than today.
func validateRentalDates(start, end, now time.Time) error {
	if !end.After(start) {
		return errors.New("end date must be after start date")
	}
	if start.Before(now.Truncate(24 * time.Hour)) {
		return errors.New("start date cannot be in the past")
	}
	return nil
}

func rentalDays(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

// computeRentalAmount prices a rental from the car's daily rate and the first
// active pricing rule that applies to the requested window.
func computeRentalAmount(dailyRate float64, start, end time.Time, rules []models.CarPricingRule) float64 {
	days := rentalDays(start, end)
	multiplier := 1.0

	for _, rule := range rules {
		if !rule.IsActive {
			continue
		}
		switch rule.RuleType {
		case "long_term":
			if rule.MinDays > 0 && days >= rule.MinDays {
				multiplier = rule.Multiplier
			}
		case "season":
			if rule.StartsOn != nil && rule.EndsOn != nil &&
				rule.StartsOn.Before(end) && rule.EndsOn.After(start) {
				multiplier = rule.Multiplier
			}
		case "weekend":
			for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
				if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
					multiplier = rule.Multiplier
					break
				}
			}
		}
		if multiplier != 1.0 {
			break
		}
	}

	return dailyRate * float64(days) * multiplier
}

func CreateRental(ctx iris.Context) {
	userIDValue := ctx.Values().Get("userID")
	if userIDValue == nil {
		utils.CreateUnauthorized(ctx)
		return
	}

	userID, ok := userIDValue.(uint)
	if !ok {
		utils.CreateUnauthorized(ctx)
		return
	}

	var request RentalBookingRequest
	if err := ctx.ReadJSON(&request); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// Renters can only book for themselves
	if userID != request.RenterID {
		utils.JSONError(ctx, iris.StatusForbidden, "forbidden", "cannot book on behalf of another user")
		return
	}

	var renter models.User
	if err := storage.DB.First(&renter, request.RenterID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if renter.VerificationStatus != "verified" {
		utils.JSONError(ctx, iris.StatusForbidden, "not_verified", "identity verification is required before booking")
		return
	}

	var car models.Car
	if err := storage.DB.First(&car, request.CarID).Error; err != nil {
		utils.JSONError(ctx, iris.StatusNotFound, "not_found", "car not found")
		return
	}
	if car.IsActive == nil || !*car.IsActive {
		utils.JSONError(ctx, iris.StatusBadRequest, "car_inactive", "this car is not accepting bookings")
		return
	}

	if request.OwnerID != car.OwnerID {
		utils.JSONError(ctx, iris.StatusBadRequest, "owner_mismatch", "owner does not match the car's owner")
		return
	}

	startDate, err := time.Parse("2006-01-02", request.StartDate)
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_date", "startDate must be YYYY-MM-DD")
		return
	}
	endDate, err := time.Parse("2006-01-02", request.EndDate)
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_date", "endDate must be YYYY-MM-DD")
		return
	}
	if err := validateRentalDates(startDate, endDate, time.Now()); err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_dates", err.Error())
		return
	}

	var rules []models.CarPricingRule
	storage.DB.Where("car_id = ? AND is_active = ?", car.ID, true).Find(&rules)

	rental := models.Rental{
		CarID:          car.ID,
		OwnerID:        car.OwnerID,
		RenterID:       renter.ID,
		StartDate:      startDate,
		EndDate:        endDate,
		Status:         "pending",
		TotalAmount:    computeRentalAmount(car.DailyRate, startDate, endDate, rules),
		Currency:       car.Currency,
		PickupLocation: request.PickupLocation,
		ReturnLocation: request.ReturnLocation,
		Notes:          request.Notes,
	}

	// Conflict check and insert run under an advisory lock keyed by car id, so
	// two concurrent requests for the same car serialize instead of racing.
	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", int64(car.ID)).Error; err != nil {
			return err
		}

		var conflicting int64
		if err := tx.Model(&models.Rental{}).
			Where("car_id = ? AND status IN ?", car.ID, models.RentalLiveStatuses).
			Where("start_date < ? AND end_date > ?", endDate, startDate).
			Count(&conflicting).Error; err != nil {
			return err
		}
		if conflicting > 0 {
			return errRentalConflict
		}

		return tx.Create(&rental).Error
	})

	if txErr != nil {
		if errors.Is(txErr, errRentalConflict) {
			utils.JSONError(ctx, iris.StatusConflict, "date_conflict", "car is already booked for these dates")
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	notification := models.Notification{
		UserID:  car.OwnerID,
		Type:    "rental_requested",
		Title:   "New Rental Request",
		Message: fmt.Sprintf("%s %s requested %s %s for %s to %s", renter.FirstName, renter.LastName, car.Make, car.Model, request.StartDate, request.EndDate),
		RefType: "rental",
		RefID:   rental.ID,
	}
	storage.DB.Create(&notification)

	renterName := fmt.Sprintf("%s %s", renter.FirstName, renter.LastName)
	carName := fmt.Sprintf("%s %s", car.Make, car.Model)
	notificationService := services.NewNotificationService()
	go notificationService.SendRentalRequestNotificationToOwner(rental.ID, car.ID, car.OwnerID, renter.ID, renterName, carName)

	storage.DB.Preload("Car").Preload("Car.Images").First(&rental, rental.ID)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"success": true,
		"message": "Rental requested successfully",
		"data":    rental,
	})
}

func GetUserRentals(ctx iris.Context) {
	userIDValue := ctx.Values().Get("userID")
	if userIDValue == nil {
		utils.CreateUnauthorized(ctx)
		return
	}
	userID := userIDValue.(uint)

	page, perPage := utils.Pagination(ctx)

	query := storage.DB.Model(&models.Rental{}).Where("renter_id = ?", userID)
	if status := ctx.URLParamDefault("status", ""); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var rentals []models.Rental
	if err := query.
		Preload("Car").
		Preload("Car.Images").
		Preload("Owner").
		Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&rentals).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, rentals, page, perPage, total)
}

func GetOwnerRentals(ctx iris.Context) {
	userIDValue := ctx.Values().Get("userID")
	if userIDValue == nil {
		utils.CreateUnauthorized(ctx)
		return
	}
	userID := userIDValue.(uint)

	page, perPage := utils.Pagination(ctx)

	query := storage.DB.Model(&models.Rental{}).Where("owner_id = ?", userID)
	if status := ctx.URLParamDefault("status", ""); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var rentals []models.Rental
	if err := query.
		Preload("Car").
		Preload("Renter").
		Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&rentals).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, rentals, page, perPage, total)
}

// GetCarRentals returns the live booking windows of a car so clients can
// render its calendar. Public: only dates and statuses are exposed.
func GetCarRentals(ctx iris.Context) {
	carID := ctx.Params().GetUintDefault("id", 0)
	if carID == 0 {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid car id")
		return
	}

	var rentals []models.Rental
	storage.DB.
		Select("id, car_id, start_date, end_date, status").
		Where("car_id = ? AND status IN ?", carID, models.RentalLiveStatuses).
		Order("start_date ASC").
		Find(&rentals)

	windows := make([]iris.Map, 0, len(rentals))
	for _, r := range rentals {
		windows = append(windows, iris.Map{
			"startDate": r.StartDate.Format("2006-01-02"),
			"endDate":   r.EndDate.Format("2006-01-02"),
			"status":    r.Status,
		})
	}

	ctx.JSON(iris.Map{"success": true, "data": windows})
}

// canTransition encodes the rental lifecycle. Completed and cancelled are terminal.
func canTransition(from, to string) bool {
	switch from {
	case "pending":
		return to == "confirmed" || to == "cancelled"
	case "confirmed":
		return to == "active" || to == "cancelled"
	case "active":
		return to == "completed"
	}
	return false
}

// allowedForParty reports whether the given party may request the transition.
func allowedForParty(isOwner, isRenter bool, to string) bool {
	if isOwner {
		return true
	}
	if isRenter {
		return to == "cancelled"
	}
	return false
}

func UpdateRentalStatus(ctx iris.Context) {
	userIDValue := ctx.Values().Get("userID")
	if userIDValue == nil {
		utils.CreateUnauthorized(ctx)
		return
	}
	userID := userIDValue.(uint)

	rentalID := ctx.Params().GetUintDefault("id", 0)
	if rentalID == 0 {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid rental id")
		return
	}

	var input RentalStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var rental models.Rental
	if err := storage.DB.Preload("Car").First(&rental, rentalID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	isOwner := rental.OwnerID == userID
	isRenter := rental.RenterID == userID
	if !isOwner && !isRenter {
		utils.CreateForbidden(ctx)
		return
	}

	if !canTransition(rental.Status, input.Status) {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_transition",
			fmt.Sprintf("cannot change status from %s to %s", rental.Status, input.Status))
		return
	}
	if !allowedForParty(isOwner, isRenter, input.Status) {
		utils.CreateForbidden(ctx)
		return
	}

	rental.Status = input.Status
	if err := storage.DB.Save(&rental).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	carName := ""
	if rental.Car != nil {
		carName = fmt.Sprintf("%s %s", rental.Car.Make, rental.Car.Model)
	}

	notification := models.Notification{
		UserID:  rental.RenterID,
		Type:    "rental_" + rental.Status,
		Title:   "Rental Update",
		Message: fmt.Sprintf("Your rental of %s is now %s", carName, rental.Status),
		RefType: "rental",
		RefID:   rental.ID,
	}
	storage.DB.Create(&notification)

	notificationService := services.NewNotificationService()
	go notificationService.SendRentalStatusNotificationToRenter(rental.ID, rental.CarID, rental.RenterID, rental.Status, carName)

	ctx.JSON(iris.Map{"success": true, "data": rental})
}

// MarkRentalAsRead clears the unread badge on an owner's incoming request.
func MarkRentalAsRead(ctx iris.Context) {
	userIDValue := ctx.Values().Get("userID")
	if userIDValue == nil {
		utils.CreateUnauthorized(ctx)
		return
	}
	userID := userIDValue.(uint)

	rentalID := ctx.Params().GetUintDefault("id", 0)
	if rentalID == 0 {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid rental id")
		return
	}

	var rental models.Rental
	if err := storage.DB.Where("id = ? AND owner_id = ?", rentalID, userID).First(&rental).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	rental.IsRead = true
	if err := storage.DB.Save(&rental).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "message": "Rental marked as read"})
}
