package middlewares

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ultraselfai/primebet-sub001/database"
	"github.com/ultraselfai/primebet-sub001/models"
)

func setupAuthTest(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("IMPERSONATION_SECRET", "test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.DB = db

	whoami := func(c *fiber.Ctx) error {
		user, _ := ActingUser(c)
		return c.JSON(fiber.Map{"id": user.ID})
	}

	app := fiber.New()
	app.Get("/read", SessionAuth(false), whoami)
	app.Post("/write", SessionAuth(true), whoami)
	return app
}

func seedUserWithSession(t *testing.T, email string) (models.User, models.Session) {
	t.Helper()

	user := models.User{Email: email}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	session := models.Session{UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)}
	if err := database.DB.Create(&session).Error; err != nil {
		t.Fatalf("create session: %v", err)
	}
	return user, session
}

func doAuth(t *testing.T, app *fiber.App, method, path string, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func TestSessionTokenResolvesUser(t *testing.T) {
	app := setupAuthTest(t)
	_, session := seedUserWithSession(t, "a@test.local")

	resp := doAuth(t, app, http.MethodGet, "/read", map[string]string{
		"Authorization": "Bearer " + session.Token,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestExpiredSessionRejected(t *testing.T) {
	app := setupAuthTest(t)
	user := models.User{Email: "b@test.local"}
	database.DB.Create(&user)
	session := models.Session{UserID: user.ID, ExpiresAt: time.Now().Add(-time.Minute)}
	database.DB.Create(&session)

	resp := doAuth(t, app, http.MethodGet, "/read", map[string]string{
		"Authorization": "Bearer " + session.Token,
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestImpersonationTokenTakesPrecedence(t *testing.T) {
	app := setupAuthTest(t)
	admin, session := seedUserWithSession(t, "admin@test.local")
	player := models.User{Email: "p@test.local"}
	database.DB.Create(&player)

	token, err := IssueImpersonationToken(player.ID, admin.ID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	resp := doAuth(t, app, http.MethodGet, "/read", map[string]string{
		"Authorization":         "Bearer " + session.Token,
		"X-Impersonation-Token": token,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		ID uint `json:"id"`
	}
	decodeJSON(t, resp, &body)
	if body.ID != player.ID {
		t.Fatalf("expected acting user %d, got %d", player.ID, body.ID)
	}
}

func TestMalformedImpersonationFallsThroughOnReads(t *testing.T) {
	app := setupAuthTest(t)
	user, session := seedUserWithSession(t, "c@test.local")

	resp := doAuth(t, app, http.MethodGet, "/read", map[string]string{
		"Authorization":         "Bearer " + session.Token,
		"X-Impersonation-Token": "not-a-jwt",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("read path must tolerate a malformed token, got %d", resp.StatusCode)
	}

	var body struct {
		ID uint `json:"id"`
	}
	decodeJSON(t, resp, &body)
	if body.ID != user.ID {
		t.Fatalf("expected session user %d, got %d", user.ID, body.ID)
	}
}

func TestMalformedImpersonationRejectedOnWrites(t *testing.T) {
	app := setupAuthTest(t)
	_, session := seedUserWithSession(t, "d@test.local")

	resp := doAuth(t, app, http.MethodPost, "/write", map[string]string{
		"Authorization":         "Bearer " + session.Token,
		"X-Impersonation-Token": "not-a-jwt",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("write path must reject a malformed token, got %d", resp.StatusCode)
	}
}

func TestUnauthenticatedRejected(t *testing.T) {
	app := setupAuthTest(t)

	resp := doAuth(t, app, http.MethodGet, "/read", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestRequireRoleGatesByAllowlist(t *testing.T) {
	setupAuthTest(t)

	adminApp := fiber.New()
	adminApp.Get("/admin", SessionAuth(true), AdminOnly(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	_, playerSession := seedUserWithSession(t, "player@test.local")
	admin := models.User{Email: "root@test.local", Role: models.RoleAdmin}
	database.DB.Create(&admin)
	adminSession := models.Session{UserID: admin.ID, ExpiresAt: time.Now().Add(time.Hour)}
	database.DB.Create(&adminSession)

	resp := doAuth(t, adminApp, http.MethodGet, "/admin", map[string]string{
		"Authorization": "Bearer " + playerSession.Token,
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("player reached admin route: %d", resp.StatusCode)
	}

	resp = doAuth(t, adminApp, http.MethodGet, "/admin", map[string]string{
		"Authorization": "Bearer " + adminSession.Token,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin blocked from admin route: %d", resp.StatusCode)
	}
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}
