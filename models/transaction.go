package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/aims_backend/config"
	"github.com/shopspring/decimal"
)

// Transaction is a single IATI financial transaction recorded on an activity.
// Immutable input to this service.
type Transaction struct {
	ID              int             `gorm:"primary_key" json:"id"`
	ActivityId      int             `gorm:"index;not null" json:"activity_id"`
	TransactionType TransactionType `gorm:"index;not null" json:"transaction_type"`

	Value    decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"value"`
	Currency string           `gorm:"size:3" json:"currency"`
	ValueUSD *decimal.Decimal `gorm:"type:decimal(20,4)" json:"value_usd"`

	TransactionDate *time.Time `gorm:"index" json:"transaction_date"`
	ValueDate       *time.Time `json:"value_date"`

	ProviderOrgName string `gorm:"size:255" json:"provider_org_name"`
	ProviderOrgRef  string `gorm:"size:255" json:"provider_org_ref"`
	ReceiverOrgName string `gorm:"size:255" json:"receiver_org_name"`
	ReceiverOrgRef  string `gorm:"size:255" json:"receiver_org_ref"`

	// Cross-references to the counterpart activity, when the publisher declared
	// one. These drive reconciliation and link discovery.
	ProviderActivityId *int `gorm:"index" json:"provider_activity_id"`
	ReceiverActivityId *int `gorm:"index" json:"receiver_activity_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// UsdAmount returns value_usd when a conversion exists, falling back to the
// raw value otherwise. The fallback is a documented, accepted imprecision for
// records the currency converter has not reached yet.
func (t *Transaction) UsdAmount() decimal.Decimal {
	if t.ValueUSD != nil {
		return *t.ValueUSD
	}
	return t.Value
}

// Date is the effective transaction date: the declared transaction date,
// falling back to the value date. Nil when neither is recorded.
func (t *Transaction) Date() *time.Time {
	if t.TransactionDate != nil {
		return t.TransactionDate
	}
	return t.ValueDate
}

// TransactionKind is the closed classification the reconciliation engine works
// with. Every transaction maps to exactly one kind; codes outside the IATI set
// are KindOther and never participate in matching.
type TransactionKind int

const (
	KindOther TransactionKind = iota
	// KindOutgoing: money leaving the recording activity (commitment or disbursement).
	KindOutgoing
	// KindIncoming: money arriving at the recording activity (funds or commitment).
	KindIncoming
	// KindPledge: an incoming pledge; counts as a contribution but never as a flow.
	KindPledge
	// KindOutgoingPledge: declared intent to disburse; excluded from all sets.
	KindOutgoingPledge
	// KindExpenditure: spent by the activity itself; not a fund flow.
	KindExpenditure
)

func (t *Transaction) Kind() TransactionKind {
	switch t.TransactionType {
	case TransactionTypeOutgoingCommitment, TransactionTypeDisbursement:
		return KindOutgoing
	case TransactionTypeIncomingFunds, TransactionTypeIncomingCommitment:
		return KindIncoming
	case TransactionTypeIncomingPledge:
		return KindPledge
	case TransactionTypeOutgoingPledge:
		return KindOutgoingPledge
	case TransactionTypeExpenditure:
		return KindExpenditure
	}
	return KindOther
}

// IsContribution reports whether the transaction counts toward a fund's
// contribution totals (incoming pledge, commitment, or funds).
func (t *Transaction) IsContribution() bool {
	k := t.Kind()
	return k == KindIncoming || k == KindPledge
}

func GetTransactionsByActivityId(ctx context.Context, activityId int) ([]*Transaction, error) {
	db := config.GetDB()
	var results []*Transaction
	if err := db.WithContext(ctx).
		Where("activity_id = ?", activityId).
		Order("transaction_date, id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func GetTransactionsByActivityIds(ctx context.Context, activityIds []int) ([]*Transaction, error) {
	db := config.GetDB()
	var results []*Transaction
	if len(activityIds) == 0 {
		return results, nil
	}
	if err := db.WithContext(ctx).
		Where("activity_id IN ?", activityIds).
		Order("transaction_date, id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetTransactionsReferencingActivity finds transactions on any activity whose
// provider or receiver cross-reference names the given activity.
func GetTransactionsReferencingActivity(ctx context.Context, activityId int) ([]*Transaction, error) {
	db := config.GetDB()
	var results []*Transaction
	if err := db.WithContext(ctx).
		Where("provider_activity_id = ? OR receiver_activity_id = ?", activityId, activityId).
		Order("id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
