package email

import (
	"testing"

	"github.com/giftwell/fulfillment-service/internal/application"
	"github.com/stretchr/testify/assert"
)

func TestGiftIssuedBody_EscapesUntrustedFields(t *testing.T) {
	body := giftIssuedBody(application.GiftNotification{
		Code:         "GFT-<script>",
		AmountCents:  2500,
		Currency:     "USD",
		BusinessName: `Mallory & Sons <img src=x onerror=alert(1)>`,
	}, "https://giftwell.example")

	assert.NotContains(t, body, "<script>")
	assert.NotContains(t, body, "<img src=x")
	assert.Contains(t, body, "GFT-&lt;script&gt;")
	assert.Contains(t, body, "Mallory &amp; Sons")
}

func TestGiftIssuedBody_CodeIsPathEscapedInLinks(t *testing.T) {
	body := giftIssuedBody(application.GiftNotification{
		Code:        "GFT A/B",
		AmountCents: 100,
		Currency:    "USD",
	}, "https://giftwell.example/")

	assert.Contains(t, body, "https://giftwell.example/redeem/GFT%20A%2FB")
	assert.Contains(t, body, "https://giftwell.example/redeem/GFT%20A%2FB/qr.png")
}
