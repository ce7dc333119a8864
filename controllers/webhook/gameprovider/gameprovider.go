// Package gameprovider implements the inbound webhook surface called by the
// external game provider during play: debit (stake), credit (settlement) and
// balance query. The provider blocks gameplay on these responses, so domain
// failures are answered as 200 payloads with success:false and only transport
// problems use non-2xx codes.
package gameprovider

import (
	"bytes"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ultraselfai/primebet-sub001/helpers"
	"github.com/ultraselfai/primebet-sub001/metrics"
)

var errEmptyBody = errors.New("body vazio")

// requireBody rejects an empty payload before any JSON parsing happens.
func requireBody(c *fiber.Ctx) error {
	if len(bytes.TrimSpace(c.Body())) == 0 {
		return errEmptyBody
	}
	return nil
}

func parsePlayerID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("playerId inválido")
	}
	return uint(id), nil
}

func fail(c *fiber.Ctx, endpoint, outcome, msg string) error {
	metrics.WebhookRequests.WithLabelValues(endpoint, outcome).Inc()
	return helpers.WebhookFailure(c, msg)
}

// InfoHandler answers GET probes on the webhook routes with a static
// liveness descriptor.
func InfoHandler(endpoint string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success":  true,
			"service":  "game-provider-webhook",
			"endpoint": endpoint,
			"method":   "POST",
		})
	}
}
