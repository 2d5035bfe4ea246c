package routes

import (
	"time"

	"drively-server/models"
	"drively-server/storage"
	"drively-server/utils"

	"github.com/kataras/iris/v12"
)

type PricingRuleInput struct {
	CarID      uint    `json:"carID" validate:"required"`
	Name       string  `json:"name" validate:"required,max=100"`
	RuleType   string  `json:"ruleType" validate:"required,oneof=weekend long_term season"`
	Multiplier float64 `json:"multiplier" validate:"required,gt=0"`
	MinDays    int     `json:"minDays" validate:"gte=0"`
	StartsOn   string  `json:"startsOn"` // season rules
	EndsOn     string  `json:"endsOn"`
}

func CreatePricingRule(ctx iris.Context) {
	userIDValue := ctx.Values().Get("userID")
	if userIDValue == nil {
		utils.CreateUnauthorized(ctx)
		return
	}
	userID := userIDValue.(uint)

	var input PricingRuleInput
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

	rule := models.CarPricingRule{
		CarID:      car.ID,
		Name:       input.Name,
		RuleType:   input.RuleType,
		Multiplier: input.Multiplier,
		MinDays:    input.MinDays,
		IsActive:   true,
	}

	if input.RuleType == "season" {
		startsOn, startErr := time.Parse("2006-01-02", input.StartsOn)
		endsOn, endErr := time.Parse("2006-01-02", input.EndsOn)
		if startErr != nil || endErr != nil || !endsOn.After(startsOn) {
			utils.JSONError(ctx, iris.StatusBadRequest, "invalid_dates", "season rules need a valid startsOn/endsOn window")
			return
		}
		rule.StartsOn = &startsOn
		rule.EndsOn = &endsOn
	}

	if err := storage.DB.Create(&rule).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "data": rule})
}

func GetCarPricingRules(ctx iris.Context) {
	carID := ctx.Params().GetUintDefault("id", 0)
	if carID == 0 {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid car id")
		return
	}

	var rules []models.CarPricingRule
	storage.DB.Where("car_id = ? AND is_active = ?", carID, true).Order("created_at ASC").Find(&rules)

	ctx.JSON(iris.Map{"success": true, "data": rules})
}

func DeletePricingRule(ctx iris.Context) {
	userIDValue := ctx.Values().Get("userID")
	if userIDValue == nil {
		utils.CreateUnauthorized(ctx)
		return
	}
	userID := userIDValue.(uint)

	ruleID := ctx.Params().GetUintDefault("id", 0)

	var rule models.CarPricingRule
	if err := storage.DB.Preload("Car").First(&rule, ruleID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if rule.Car.OwnerID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	if err := storage.DB.Delete(&rule).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "message": "Pricing rule deleted"})
}
