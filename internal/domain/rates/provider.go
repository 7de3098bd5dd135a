// Package rates exposes the USD/VES exchange rate used to price tickets
// in local currency.
package rates

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Rate is one exchange-rate observation.
type Rate struct {
	Value     decimal.Decimal `json:"value"`
	Date      string          `json:"date"`
	FetchedAt time.Time       `json:"fetchedAt"`
	Source    string          `json:"source"`
}

// Provider supplies the current exchange rate. Implementations are
// expected to cache and to serve a stale value rather than fail when the
// upstream is unreachable.
type Provider interface {
	Current(ctx context.Context) (*Rate, error)
}
