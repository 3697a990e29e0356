package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ColumnDealUniqueID    = "deal_unique_id"
	ColumnFromCurrencyISO = "from_currency_iso"
	ColumnToCurrencyISO   = "to_currency_iso"
	ColumnDealTimestamp   = "deal_timestamp"
	ColumnDealAmount      = "deal_amount"
)

// RequiredColumns lists the header names an import file must carry.
var RequiredColumns = []string{
	ColumnDealUniqueID,
	ColumnFromCurrencyISO,
	ColumnToCurrencyISO,
	ColumnDealTimestamp,
	ColumnDealAmount,
}

type Deal struct {
	DealUniqueID    string
	FromCurrencyISO string
	ToCurrencyISO   string
	DealTimestamp   time.Time
	DealAmount      decimal.Decimal
}

type StoredDeal struct {
	ID int64
	Deal
	CreatedAt time.Time
}
