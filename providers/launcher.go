package providers

import (
	"strings"
)

type LaunchRequest struct {
	UserCode string `json:"user_code"`
	GameCode string `json:"game_code"`
	Lang     string `json:"lang"`
	Platform string `json:"platform"`
	Currency string `json:"currency"`
	IP       string `json:"ip"`
}

// GameProviderLauncher is what a provider integration must implement to
// launch games.
type GameProviderLauncher interface {
	StartGame(req LaunchRequest) (string, error)
}

var GameLaunchers = map[string]GameProviderLauncher{}

func RegisterProvider(name string, launcher GameProviderLauncher) {
	GameLaunchers[strings.ToLower(name)] = launcher
}

func GetProvider(name string) GameProviderLauncher {
	return GameLaunchers[strings.ToLower(name)]
}
