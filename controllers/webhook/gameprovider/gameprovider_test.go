package gameprovider

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ultraselfai/primebet-sub001/cache"
	"github.com/ultraselfai/primebet-sub001/database"
	"github.com/ultraselfai/primebet-sub001/models"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// a single connection keeps every session on the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.DB = db
	cache.Balances = cache.NewMemory(cache.DefaultTTL)

	app := fiber.New()
	app.Post("/webhooks/game-provider/debit", DebitHandler)
	app.Post("/webhooks/game-provider/credit", CreditHandler)
	app.Post("/webhooks/game-provider/balance", BalanceHandler)
	app.Get("/webhooks/game-provider/debit", InfoHandler("debit"))
	return app
}

func seedPlayer(t *testing.T, balance string) models.User {
	t.Helper()

	user := models.User{Email: "player@test.local"}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	bal, err := decimal.NewFromString(balance)
	if err != nil {
		t.Fatalf("parse balance: %v", err)
	}
	w := models.WalletGame{UserID: user.ID, Balance: bal, Currency: "BRL"}
	if err := database.DB.Create(&w).Error; err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	return user
}

func seedGame(t *testing.T, code string) models.Game {
	t.Helper()

	game := models.Game{ProviderCode: code, Slug: code, Name: code, Category: "slots", Enabled: true}
	if err := database.DB.Create(&game).Error; err != nil {
		t.Fatalf("create game: %v", err)
	}
	return game
}

func post(t *testing.T, app *fiber.App, path, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var out map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("unmarshal %q: %v", string(raw), err)
		}
	}
	return resp.StatusCode, out
}

func walletBalance(t *testing.T, userID uint) decimal.Decimal {
	t.Helper()

	var w models.WalletGame
	if err := database.DB.Where("user_id = ?", userID).First(&w).Error; err != nil {
		t.Fatalf("read wallet: %v", err)
	}
	return w.Balance
}

func TestDebitThenCreditSettlesRound(t *testing.T) {
	app := setupApp(t)
	user := seedPlayer(t, "100.00")
	game := seedGame(t, "fortune-ox")

	code, body := post(t, app, "/webhooks/game-provider/debit",
		`{"playerId":"1","amount":30,"roundId":"r1","gameCode":"fortune-ox","sessionToken":"s1"}`)
	if code != http.StatusOK || body["success"] != true {
		t.Fatalf("debit failed: code=%d body=%v", code, body)
	}
	if body["balance"].(float64) != 70 {
		t.Fatalf("expected balance 70, got %v", body["balance"])
	}

	var bet models.Bet
	if err := database.DB.Where("user_id = ? AND round_id = ?", user.ID, "r1").First(&bet).Error; err != nil {
		t.Fatalf("bet not created: %v", err)
	}
	if bet.Status != models.BetActive || !bet.Amount.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("unexpected bet: status=%s amount=%s", bet.Status, bet.Amount)
	}
	if bet.GameID == nil || *bet.GameID != game.ID {
		t.Fatalf("bet not linked to game")
	}

	code, body = post(t, app, "/webhooks/game-provider/credit",
		`{"playerId":"1","amount":90,"roundId":"r1"}`)
	if code != http.StatusOK || body["success"] != true {
		t.Fatalf("credit failed: code=%d body=%v", code, body)
	}
	if body["balance"].(float64) != 160 {
		t.Fatalf("expected balance 160, got %v", body["balance"])
	}

	if err := database.DB.First(&bet, bet.ID).Error; err != nil {
		t.Fatalf("reload bet: %v", err)
	}
	if bet.Status != models.BetWon {
		t.Fatalf("expected WON, got %s", bet.Status)
	}
	if !bet.Result.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("expected result 90, got %s", bet.Result)
	}
	if bet.SettledAt == nil {
		t.Fatal("settled_at not stamped")
	}
	_ = user
}

func TestDebitInsufficientBalanceLeavesStateUntouched(t *testing.T) {
	app := setupApp(t)
	user := seedPlayer(t, "10.00")
	seedGame(t, "fortune-ox")

	code, body := post(t, app, "/webhooks/game-provider/debit",
		`{"playerId":"1","amount":50,"roundId":"r1","gameCode":"fortune-ox"}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if body["success"] != false {
		t.Fatalf("expected success:false, got %v", body)
	}

	if got := walletBalance(t, user.ID); !got.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("balance changed on rejected debit: %s", got)
	}
	var count int64
	database.DB.Model(&models.Bet{}).Count(&count)
	if count != 0 {
		t.Fatalf("bet created on rejected debit")
	}
}

func TestDebitNeverDrivesBalanceNegative(t *testing.T) {
	app := setupApp(t)
	user := seedPlayer(t, "25.00")

	amounts := []string{"10", "10", "10", "10", "5"}
	for i, amt := range amounts {
		post(t, app, "/webhooks/game-provider/debit",
			`{"playerId":"1","amount":`+amt+`,"roundId":"r`+amt+string(rune('a'+i))+`"}`)
		if walletBalance(t, user.ID).IsNegative() {
			t.Fatalf("balance went negative after debit %d", i)
		}
	}
	if got := walletBalance(t, user.ID); !got.Equal(decimal.Zero) {
		t.Fatalf("expected final balance 0, got %s", got)
	}
}

func TestDebitEmptyBodyRejected(t *testing.T) {
	app := setupApp(t)
	seedPlayer(t, "10.00")

	code, body := post(t, app, "/webhooks/game-provider/debit", "")
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if body["success"] != false || body["error"] != "Body vazio" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestDebitUnknownGameStillDebitsWallet(t *testing.T) {
	app := setupApp(t)
	user := seedPlayer(t, "100.00")

	code, body := post(t, app, "/webhooks/game-provider/debit",
		`{"playerId":"1","amount":30,"roundId":"r1","gameCode":"ghost-game"}`)
	if code != http.StatusOK || body["success"] != true {
		t.Fatalf("debit failed: %v", body)
	}
	if got := walletBalance(t, user.ID); !got.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected 70, got %s", got)
	}
	var count int64
	database.DB.Model(&models.Bet{}).Count(&count)
	if count != 0 {
		t.Fatalf("bet should not be created for unknown game")
	}
}

func TestDebitMissingWalletIsDomainFailure(t *testing.T) {
	app := setupApp(t)

	code, body := post(t, app, "/webhooks/game-provider/debit",
		`{"playerId":"42","amount":10,"roundId":"r1"}`)
	if code != http.StatusOK || body["success"] != false {
		t.Fatalf("expected structured failure, got code=%d body=%v", code, body)
	}
}

func TestCreditSettlesRoundAtMostOnce(t *testing.T) {
	app := setupApp(t)
	user := seedPlayer(t, "100.00")
	seedGame(t, "fortune-ox")

	post(t, app, "/webhooks/game-provider/debit",
		`{"playerId":"1","amount":30,"roundId":"r1","gameCode":"fortune-ox"}`)

	post(t, app, "/webhooks/game-provider/credit",
		`{"playerId":"1","amount":90,"roundId":"r1"}`)
	_, body := post(t, app, "/webhooks/game-provider/credit",
		`{"playerId":"1","amount":90,"roundId":"r1"}`)
	if body["success"] != true {
		t.Fatalf("second credit should still succeed additively: %v", body)
	}

	// balance reflects both credits, but the bet settled exactly once
	if got := walletBalance(t, user.ID); !got.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected 250, got %s", got)
	}
	var settled int64
	database.DB.Model(&models.Bet{}).Where("round_id = ? AND status != ?", "r1", models.BetActive).Count(&settled)
	if settled != 1 {
		t.Fatalf("expected exactly one settled bet, got %d", settled)
	}
	var bet models.Bet
	database.DB.Where("round_id = ?", "r1").First(&bet)
	if !bet.Result.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("result overwritten by duplicate credit: %s", bet.Result)
	}
}

func TestCreditZeroAmountMarksBetLost(t *testing.T) {
	app := setupApp(t)
	user := seedPlayer(t, "100.00")
	seedGame(t, "fortune-ox")

	post(t, app, "/webhooks/game-provider/debit",
		`{"playerId":"1","amount":30,"roundId":"r1","gameCode":"fortune-ox"}`)
	_, body := post(t, app, "/webhooks/game-provider/credit",
		`{"playerId":"1","amount":0,"roundId":"r1"}`)
	if body["success"] != true {
		t.Fatalf("zero credit must succeed: %v", body)
	}

	var bet models.Bet
	database.DB.Where("round_id = ?", "r1").First(&bet)
	if bet.Status != models.BetLost {
		t.Fatalf("expected LOST, got %s", bet.Status)
	}
	if got := walletBalance(t, user.ID); !got.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected 70, got %s", got)
	}
}

func TestCreditWithoutRoundIDUsesDegradedFallback(t *testing.T) {
	app := setupApp(t)
	seedPlayer(t, "100.00")
	seedGame(t, "fortune-ox")

	post(t, app, "/webhooks/game-provider/debit",
		`{"playerId":"1","amount":10,"roundId":"r1","gameCode":"fortune-ox"}`)
	post(t, app, "/webhooks/game-provider/debit",
		`{"playerId":"1","amount":20,"roundId":"r2","gameCode":"fortune-ox"}`)

	post(t, app, "/webhooks/game-provider/credit", `{"playerId":"1","amount":40}`)

	// most recent ACTIVE bet (r2) settles; r1 stays ACTIVE
	var r2 models.Bet
	database.DB.Where("round_id = ?", "r2").First(&r2)
	if r2.Status != models.BetWon {
		t.Fatalf("expected r2 WON, got %s", r2.Status)
	}
	var r1 models.Bet
	database.DB.Where("round_id = ?", "r1").First(&r1)
	if r1.Status != models.BetActive {
		t.Fatalf("expected r1 still ACTIVE, got %s", r1.Status)
	}
}

func TestCreditWithUnmatchedRoundSettlesNothing(t *testing.T) {
	app := setupApp(t)
	user := seedPlayer(t, "100.00")
	seedGame(t, "fortune-ox")

	post(t, app, "/webhooks/game-provider/debit",
		`{"playerId":"1","amount":10,"roundId":"r1","gameCode":"fortune-ox"}`)

	_, body := post(t, app, "/webhooks/game-provider/credit",
		`{"playerId":"1","amount":5,"roundId":"ghost-round"}`)
	if body["success"] != true {
		t.Fatalf("credit must stay additive: %v", body)
	}

	var r1 models.Bet
	database.DB.Where("round_id = ?", "r1").First(&r1)
	if r1.Status != models.BetActive {
		t.Fatalf("unrelated bet settled by unmatched round: %s", r1.Status)
	}
	if got := walletBalance(t, user.ID); !got.Equal(decimal.NewFromInt(95)) {
		t.Fatalf("expected 95, got %s", got)
	}
}

func TestCreditIsMonotonicallyAdditive(t *testing.T) {
	app := setupApp(t)
	user := seedPlayer(t, "0.00")

	for _, amt := range []string{"5", "0", "12.50"} {
		_, body := post(t, app, "/webhooks/game-provider/credit",
			`{"playerId":"1","amount":`+amt+`}`)
		if body["success"] != true {
			t.Fatalf("credit %s rejected: %v", amt, body)
		}
	}
	if got := walletBalance(t, user.ID); !got.Equal(decimal.RequireFromString("17.50")) {
		t.Fatalf("expected 17.50, got %s", got)
	}
}

func TestBalanceQueryIdempotentAndInvalidatedOnWrite(t *testing.T) {
	app := setupApp(t)
	seedPlayer(t, "100.00")

	_, first := post(t, app, "/webhooks/game-provider/balance", `{"playerId":"1"}`)
	_, second := post(t, app, "/webhooks/game-provider/balance", `{"playerId":"1"}`)
	if first["balance"].(float64) != 100 || second["balance"].(float64) != 100 {
		t.Fatalf("idempotent reads broken: %v / %v", first, second)
	}

	post(t, app, "/webhooks/game-provider/debit", `{"playerId":"1","amount":40,"roundId":"r1"}`)

	_, after := post(t, app, "/webhooks/game-provider/balance", `{"playerId":"1"}`)
	if after["balance"].(float64) != 60 {
		t.Fatalf("stale balance served after debit: %v", after["balance"])
	}
}

func TestBalanceUnknownWalletReturnsZero(t *testing.T) {
	app := setupApp(t)

	code, body := post(t, app, "/webhooks/game-provider/balance", `{"playerId":"99"}`)
	if code != http.StatusOK || body["success"] != true {
		t.Fatalf("balance for unknown wallet must succeed: code=%d body=%v", code, body)
	}
	if body["balance"].(float64) != 0 {
		t.Fatalf("expected 0, got %v", body["balance"])
	}
}

func TestInfoEndpointAnswersGet(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest(http.MethodGet, "/webhooks/game-provider/debit", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestDebitRejectsNonPositiveAmounts(t *testing.T) {
	app := setupApp(t)
	user := seedPlayer(t, "50.00")

	for _, body := range []string{
		`{"playerId":"1","amount":0}`,
		`{"playerId":"1","amount":-10}`,
	} {
		_, out := post(t, app, "/webhooks/game-provider/debit", body)
		if out["success"] != false {
			t.Fatalf("non-positive amount accepted: %s -> %v", body, out)
		}
	}
	if got := walletBalance(t, user.ID); !got.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("balance changed: %s", got)
	}
}
