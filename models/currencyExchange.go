package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/aims_backend/config"
	"github.com/shopspring/decimal"
)

// CurrencyExchange is a dated exchange rate into USD, maintained by the import
// side. The convert-currencies job reads the latest rate at or before a
// transaction's date.
type CurrencyExchange struct {
	ID           int             `gorm:"primary_key" json:"id"`
	CurrencyCode string          `gorm:"size:3;index;not null" json:"currency_code"`
	ExchangeDate time.Time       `gorm:"index;not null" json:"exchange_date"`
	RateToUSD    decimal.Decimal `gorm:"type:decimal(20,8);default:0" json:"rate_to_usd"`
	Notes        string          `gorm:"size:255" json:"notes"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// GetExchangeRate returns the most recent rate for the currency at or before
// the given date. Missing rates surface as ErrorRecordNotFound so the backfill
// job can skip and report rather than fabricate a conversion; any other
// datastore failure propagates unchanged so the job aborts instead of
// misreading an outage as "no rate".
func GetExchangeRate(ctx context.Context, currencyCode string, asOf time.Time) (decimal.Decimal, error) {
	db := config.GetDB()
	var exchange CurrencyExchange
	err := db.WithContext(ctx).
		Where("currency_code = ? AND exchange_date <= ?", currencyCode, asOf).
		Order("exchange_date DESC").
		First(&exchange).Error
	if err != nil {
		return decimal.Zero, normalizeNotFound(err)
	}
	return exchange.RateToUSD, nil
}

// GetUnconvertedTransactions lists non-USD transactions still missing a USD
// value, oldest first.
func GetUnconvertedTransactions(ctx context.Context, limit int) ([]*Transaction, error) {
	db := config.GetDB()
	var results []*Transaction
	dbCtx := db.WithContext(ctx).
		Where("value_usd IS NULL AND currency <> ?", "USD").
		Order("transaction_date, id")
	if limit > 0 {
		dbCtx = dbCtx.Limit(limit)
	}
	if err := dbCtx.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
