package routes

import (
	"net/http"
	"os"
	"strings"

	"drively-server/models"
	"drively-server/storage"
	"drively-server/utils"

	"github.com/kataras/iris/v12"
)

// AdminListUsers - GET /admin/users?role=&status=&q=&page=&per_page=
func AdminListUsers(ctx iris.Context) {
	page, perPage := utils.Pagination(ctx)

	query := storage.DB.Model(&models.User{})
	if role := strings.TrimSpace(ctx.URLParamDefault("role", "")); role != "" {
		query = query.Where("active_role = ?", role)
	}
	if status := strings.TrimSpace(ctx.URLParamDefault("status", "")); status != "" {
		query = query.Where("verification_status = ?", status)
	}
	if q := strings.TrimSpace(ctx.URLParamDefault("q", "")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(first_name) LIKE ? OR lower(last_name) LIKE ? OR lower(email) LIKE ?", like, like, like)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Offset((page - 1) * perPage).Limit(perPage).Find(&users).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, users, page, perPage, total)
}

// AdminGetUser - GET /admin/users/:id with verification history and recent audit trail
func AdminGetUser(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "user not found")
		return
	}

	var documents []models.VerificationDocument
	storage.DB.Where("user_id = ?", id).Order("created_at DESC").Find(&documents)

	var actions []models.AuditLog
	storage.DB.Where("resource_type = ? AND resource_id = ?", "user", id).
		Order("created_at DESC").Limit(50).Find(&actions)

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"user":          user,
			"verifications": documents,
			"recentActions": actions,
		},
		"meta":  iris.Map{},
		"links": iris.Map{},
	})
}

type BootstrapInput struct {
	SetupToken string `json:"setupToken" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=12"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
}

// AdminBootstrap creates the first admin account. It only works while no admin
// exists and requires the deploy-time ADMIN_SETUP_TOKEN.
func AdminBootstrap(ctx iris.Context) {
	var input BootstrapInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	setupToken := os.Getenv("ADMIN_SETUP_TOKEN")
	if setupToken == "" || input.SetupToken != setupToken {
		utils.CreateForbidden(ctx)
		return
	}

	var adminCount int64
	storage.DB.Model(&models.User{}).
		Where("roles::jsonb @> ?", `["admin"]`).
		Count(&adminCount)
	if adminCount > 0 {
		utils.JSONError(ctx, http.StatusForbidden, "already_bootstrapped", "an admin account already exists")
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(input.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	verified := true
	admin := models.User{
		FirstName:          input.FirstName,
		LastName:           input.LastName,
		Email:              strings.ToLower(input.Email),
		Password:           hashedPassword,
		Roles:              utils.EncodeRoles([]string{utils.RoleAdmin, utils.RoleRenter}),
		ActiveRole:         utils.RoleAdmin,
		VerificationStatus: "verified",
		IsVerified:         &verified,
	}
	if err := storage.DB.Create(&admin).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	returnUser(admin, ctx)
}
