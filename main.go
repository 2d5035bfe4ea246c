package main

import (
	"log"
	"os"

	"drively-server/routes"
	"drively-server/storage"
	"drively-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	utils.SetupLogger()
	storage.InitializeDB()
	storage.InitializeS3()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	resetTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("EMAIL_TOKEN_SECRET")))
	resetTokenVerifier.WithDefaultBlocklist()
	resetTokenVerifierMiddleware := resetTokenVerifier.Verify(func() interface{} {
		return new(utils.ForgotPasswordToken)
	})

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}

		return tokenInput.RefreshToken
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/google", routes.GoogleLoginOrSignUp)
		user.Post("/guest", routes.ProvisionGuestRenter)
		user.Post("/forgot-password", routes.ForgotPassword)
		user.Post("/reset-password", resetTokenVerifierMiddleware, routes.ResetPassword)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

		user.Post("/switch-role", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.SwitchActiveRole)
		user.Post("/verification", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.SubmitVerification)
		user.Get("/verification", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetMyVerification)

		user.Get("/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetUser)
		user.Patch("/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.UpdateUserProfile)
		user.Patch("/{id:uint}/push-token", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.AlterPushToken)
		user.Patch("/{id:uint}/settings/notifications", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.AllowsNotifications)
	}

	car := app.Party("/api/car")
	{
		car.Get("/search", routes.SearchCars)
		car.Get("/{id:uint}", routes.GetCar)
		car.Get("/{id:uint}/rentals", routes.GetCarRentals)
		car.Get("/{id:uint}/pricing", routes.GetCarPricingRules)

		owned := car.Party("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
		{
			owned.Post("/", routes.CreateCar)
			owned.Get("/mine", routes.GetOwnerCars)
			owned.Patch("/{id:uint}", routes.UpdateCar)
			owned.Patch("/{id:uint}/active", routes.SetCarActive)
			owned.Delete("/{id:uint}", routes.DeleteCar)
			owned.Post("/{id:uint}/image", routes.AddCarImage)
			owned.Patch("/{id:uint}/image/{imageID:uint}", routes.UpdateCarImagePosition)
			owned.Patch("/{id:uint}/image/{imageID:uint}/primary", routes.SetPrimaryCarImage)
			owned.Delete("/{id:uint}/image/{imageID:uint}", routes.DeleteCarImage)
			owned.Get("/{id:uint}/maintenance", routes.GetCarMaintenanceRecords)
		}
	}

	rental := app.Party("/api/rental", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		rental.Post("/", routes.CreateRental)
		rental.Get("/mine", routes.GetUserRentals)
		rental.Get("/owner", routes.GetOwnerRentals)
		rental.Patch("/{id:uint}/status", routes.UpdateRentalStatus)
		rental.Patch("/{id:uint}/read", routes.MarkRentalAsRead)
	}

	maintenance := app.Party("/api/maintenance", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware)
	{
		maintenance.Post("/", routes.CreateMaintenanceRecord)
		maintenance.Delete("/{id:uint}", routes.DeleteMaintenanceRecord)
	}

	pricing := app.Party("/api/pricing", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware)
	{
		pricing.Post("/", routes.CreatePricingRule)
		pricing.Delete("/{id:uint}", routes.DeletePricingRule)
	}

	reminder := app.Party("/api/reminder", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		reminder.Post("/", routes.CreateReminder)
		reminder.Get("/", routes.GetUserReminders)
		reminder.Patch("/{id:uint}/done", routes.CompleteReminder)
		reminder.Delete("/{id:uint}", routes.DeleteReminder)
	}

	notifications := app.Party("/api/notifications", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		notifications.Get("/", routes.GetUserNotifications)
		notifications.Patch("/{id:uint}/read", routes.MarkNotificationAsRead)
	}

	upload := app.Party("/api/upload", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		upload.Post("/image", routes.UploadImage)
	}

	admin := app.Party("/api/admin")
	{
		admin.Post("/bootstrap", routes.AdminBootstrap)

		guarded := admin.Party("/", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
		{
			guarded.Get("/users", routes.AdminListUsers)
			guarded.Get("/users/{id:uint}", routes.AdminGetUser)
			guarded.Post("/users/{id:uint}/verify", routes.AdminReviewVerification)
			guarded.Get("/verifications", routes.AdminListVerifications)
			guarded.Get("/rentals", routes.AdminListRentals)
			guarded.Patch("/rentals/{id:uint}/status", routes.AdminForceRentalStatus)
			guarded.Get("/cars", routes.AdminListCars)
			guarded.Patch("/cars/{id:uint}/flag", routes.AdminFlagCar)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	log.Fatal(app.Listen(":" + port))
}
