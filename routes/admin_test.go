package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"drively-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// buildAdminTestApp mounts a stub handler behind the real admin middleware so
// RBAC can be exercised without a database.
func buildAdminTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/ping", func(ctx iris.Context) {
			ctx.JSON(iris.Map{"ok": true})
		})
	}

	if err := app.Build(); err != nil {
		panic(err)
	}
	return app
}

func signTestToken(id uint, role string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), time.Hour)
	token, _ := signer.Sign(utils.AccessToken{ID: id, Role: role})
	return string(token)
}

func TestAdminRBAC(t *testing.T) {
	app := buildAdminTestApp()

	// no token
	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}

	// renter role -> 403
	req2 := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req2.Header.Set("Authorization", "Bearer "+signTestToken(7, "renter"))
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for renter role, got %d", resp2.Code)
	}

	// car_owner role -> 403
	req3 := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req3.Header.Set("Authorization", "Bearer "+signTestToken(7, "car_owner"))
	resp3 := httptest.NewRecorder()
	app.ServeHTTP(resp3, req3)
	if resp3.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for car_owner role, got %d", resp3.Code)
	}

	// admin role -> 200
	req4 := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req4.Header.Set("Authorization", "Bearer "+signTestToken(1, "admin"))
	resp4 := httptest.NewRecorder()
	app.ServeHTTP(resp4, req4)
	if resp4.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin role, got %d", resp4.Code)
	}
}
