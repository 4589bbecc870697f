package domain

import "time"

type PayoutTargetType string

const (
	PayoutTargetTypeStore  PayoutTargetType = "STORE"
	PayoutTargetTypeDasher PayoutTargetType = "DASHER"
)

// PaymentAccount is the payee-side account a payout is routed to. Country is
// the registered country of the gateway-managed account and drives both the
// payout-country filter and the currency of new transfers.
type PaymentAccount struct {
	ID             int64     `json:"id"`
	GatewayAccount string    `json:"gateway_account"` // provider-side account id
	Country        string    `json:"country"`         // ISO 3166-1 alpha-2
	Entity         string    `json:"entity"`
	PayoutDisabled bool      `json:"payout_disabled"`
	CreatedAt      time.Time `json:"created_at"`
}

// BankUpdateEvent records one edit of an account's bank information. Recent
// events gate automatic payouts through the fraud check.
type BankUpdateEvent struct {
	ID               int64     `json:"id"`
	PaymentAccountID int64     `json:"payment_account_id"`
	Field            string    `json:"field"`
	CreatedAt        time.Time `json:"created_at"`
}

var countryToCurrency = map[string]Currency{
	"US": CurrencyUSD,
	"CA": CurrencyCAD,
	"AU": CurrencyAUD,
}

// CurrencyForCountry returns the payout currency for a registered country, or
// false when the country is not supported.
func CurrencyForCountry(country string) (Currency, bool) {
	c, ok := countryToCurrency[country]
	return c, ok
}
