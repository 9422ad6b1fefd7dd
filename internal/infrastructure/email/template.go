package email

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/giftwell/fulfillment-service/internal/application"
)

// giftIssuedSubject and giftIssuedBody render the outbound notification. The
// QR image is linked, not generated here; the marketplace serves it at a
// stable URL derived from the code.

func giftIssuedSubject(n application.GiftNotification) string {
	if n.BusinessName == "" {
		return "Your gift card is ready"
	}
	return fmt.Sprintf("Your %s gift card is ready", n.BusinessName)
}

func giftIssuedBody(n application.GiftNotification, redeemBaseURL string) string {
	base := strings.TrimRight(redeemBaseURL, "/")
	codePath := url.PathEscape(n.Code)
	redeemURL := fmt.Sprintf("%s/redeem/%s", base, codePath)
	qrURL := fmt.Sprintf("%s/redeem/%s/qr.png", base, codePath)

	// Code and business name come from the record store and session metadata;
	// neither is trusted as markup.
	business := html.EscapeString(n.BusinessName)
	if business == "" {
		business = "the issuing business"
	}

	var b strings.Builder
	b.WriteString(`<div style="font-family: sans-serif; max-width: 480px">`)
	fmt.Fprintf(&b, `<h2>Your gift card for %s</h2>`, business)
	fmt.Fprintf(&b, `<p>Amount: <strong>%s</strong></p>`, FormatAmount(n.AmountCents, n.Currency))
	fmt.Fprintf(&b, `<p>Code: <strong style="font-size: 1.4em; letter-spacing: 2px">%s</strong></p>`, html.EscapeString(n.Code))
	fmt.Fprintf(&b, `<p><img src="%s" alt="redemption QR code" width="180" height="180"></p>`, qrURL)
	fmt.Fprintf(&b, `<p>Show this code (or the QR above) in person, or open <a href="%s">%s</a>.</p>`, redeemURL, redeemURL)
	b.WriteString(`</div>`)
	return b.String()
}

// FormatAmount renders minor units as "25.00 USD".
func FormatAmount(cents int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", cents/100, cents%100, currency)
}
