package fund

import (
	"testing"

	"bitbucket.org/mmdatafocus/aims_backend/models"
)

func TestFundOutgoingSelectsCommitmentsAndDisbursements(t *testing.T) {
	txns := []*models.Transaction{
		txn(1, models.TransactionTypeOutgoingCommitment, "100", day("2024-01-01")),
		txn(1, models.TransactionTypeDisbursement, "200", day("2024-01-02")),
		txn(1, models.TransactionTypeExpenditure, "300", day("2024-01-03")),
		txn(1, models.TransactionTypeOutgoingPledge, "400", day("2024-01-04")),
		txn(1, models.TransactionTypeIncomingFunds, "500", day("2024-01-05")),
	}

	out := FundOutgoing(txns)
	if len(out) != 2 {
		t.Fatalf("expected 2 outgoing transactions, got %d", len(out))
	}
	if !SumUSD(out).Equal(usd("300")) {
		t.Errorf("expected outgoing total 300, got %s", SumUSD(out))
	}
}

func TestChildIncomingFromFundRequiresProviderReference(t *testing.T) {
	fromFund := txn(2, models.TransactionTypeIncomingFunds, "100", day("2024-01-01"))
	fromFund.ProviderActivityId = intPtr(1)
	fromElsewhere := txn(2, models.TransactionTypeIncomingFunds, "200", day("2024-01-02"))
	fromElsewhere.ProviderActivityId = intPtr(99)
	unreferenced := txn(2, models.TransactionTypeIncomingFunds, "300", day("2024-01-03"))
	wrongKind := txn(2, models.TransactionTypeIncomingPledge, "400", day("2024-01-04"))
	wrongKind.ProviderActivityId = intPtr(1)

	in := ChildIncomingFromFund([]*models.Transaction{fromFund, fromElsewhere, unreferenced, wrongKind}, 1)
	if len(in) != 1 {
		t.Fatalf("expected only the fund-referenced incoming transaction, got %d", len(in))
	}
	if !in[0].UsdAmount().Equal(usd("100")) {
		t.Errorf("expected amount 100, got %s", in[0].UsdAmount())
	}
}

func TestContributionsSelectIncomingPledgeCommitmentFunds(t *testing.T) {
	txns := []*models.Transaction{
		txn(1, models.TransactionTypeIncomingPledge, "100", day("2024-01-01")),
		txn(1, models.TransactionTypeIncomingCommitment, "200", day("2024-01-02")),
		txn(1, models.TransactionTypeIncomingFunds, "300", day("2024-01-03")),
		txn(1, models.TransactionTypeDisbursement, "400", day("2024-01-04")),
	}

	in := Contributions(txns)
	if len(in) != 3 {
		t.Fatalf("expected 3 contributions, got %d", len(in))
	}
	if !SumUSD(in).Equal(usd("600")) {
		t.Errorf("expected contribution total 600, got %s", SumUSD(in))
	}
}

func TestSumUSDPrefersConvertedValue(t *testing.T) {
	converted := txn(1, models.TransactionTypeDisbursement, "100", day("2024-01-01"))
	convertedUsd := usd("85")
	converted.ValueUSD = &convertedUsd
	converted.Currency = "EUR"
	raw := txn(1, models.TransactionTypeDisbursement, "50", day("2024-01-02"))

	total := SumUSD([]*models.Transaction{converted, raw})
	if !total.Equal(usd("135")) {
		t.Errorf("expected 85 + 50 = 135, got %s", total)
	}
}
