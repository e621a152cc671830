package fund

import (
	"context"
	"errors"
	"testing"

	"bitbucket.org/mmdatafocus/aims_backend/models"
)

func summaryFixture() *fixture {
	f := &fixture{
		activities: []*models.Activity{
			{
				ID:                      1,
				Title:                   "Myanmar Health Pooled Fund",
				Status:                  models.ActivityStatusImplementation,
				IsPooledFund:            true,
				PlannedStartDate:        day("2023-01-01"),
				PlannedEndDate:          day("2026-12-31"),
				ReportingOrganizationId: intPtr(10),
			},
			{ID: 2, Title: "Township Clinics"},
			{ID: 3, Title: "Vaccine Cold Chain"},
		},
		orgs: map[int]*models.Organization{
			10: {ID: 10, Name: "Global Health Initiative"},
		},
		edges: []*models.ActivityRelationship{
			{ID: 1, ActivityId: 1, RelatedActivityId: 2, RelationshipType: models.RelationshipTypeChild},
			{ID: 2, ActivityId: 1, RelatedActivityId: 3, RelationshipType: models.RelationshipTypeChild},
		},
	}

	pledge := txn(1, models.TransactionTypeIncomingPledge, "500", day("2024-01-10"))
	pledge.ProviderOrgName = "Donor A"
	commitment := txn(1, models.TransactionTypeIncomingCommitment, "1000", day("2024-01-20"))
	commitment.ProviderOrgName = "Donor B"
	received := txn(1, models.TransactionTypeIncomingFunds, "750", day("2024-02-01"))
	received.ProviderOrgName = "Donor A"

	disbQ1 := txn(1, models.TransactionTypeDisbursement, "800", day("2024-02-15"))
	disbQ1.ReceiverActivityId = intPtr(2)
	disbQ2 := txn(1, models.TransactionTypeDisbursement, "400", day("2024-05-10"))
	disbQ2.ReceiverActivityId = intPtr(3)

	childIn := txn(2, models.TransactionTypeIncomingFunds, "900", day("2024-02-16"))
	childIn.ProviderActivityId = intPtr(1)

	f.txns = []*models.Transaction{pledge, commitment, received, disbQ1, disbQ2, childIn}
	return f
}

func TestGetFundSummaryTotals(t *testing.T) {
	f := summaryFixture()
	summary, err := f.service().GetFundSummary(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.FundName != "Myanmar Health Pooled Fund" {
		t.Errorf("unexpected fund name %q", summary.FundName)
	}
	if summary.DateRange != "2023-01-01 - 2026-12-31" {
		t.Errorf("unexpected date range %q", summary.DateRange)
	}
	if summary.Organization != "Global Health Initiative" {
		t.Errorf("unexpected organization %q", summary.Organization)
	}
	if summary.ChildCount != 2 {
		t.Errorf("expected 2 children, got %d", summary.ChildCount)
	}
	if !summary.TotalPledged.Equal(usd("500")) {
		t.Errorf("expected pledged 500, got %s", summary.TotalPledged)
	}
	if !summary.TotalCommitted.Equal(usd("1000")) {
		t.Errorf("expected committed 1000, got %s", summary.TotalCommitted)
	}
	if !summary.TotalReceived.Equal(usd("750")) {
		t.Errorf("expected received 750, got %s", summary.TotalReceived)
	}
	if !summary.TotalContributions.Equal(usd("2250")) {
		t.Errorf("expected contributions 2250, got %s", summary.TotalContributions)
	}
}

func TestGetFundSummaryDisbursementsTakeLargerLedger(t *testing.T) {
	f := summaryFixture()
	summary, err := f.service().GetFundSummary(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Fund-side outgoing 1200 beats child-side acknowledged 900.
	if !summary.TotalDisbursements.Equal(usd("1200")) {
		t.Errorf("expected disbursements 1200, got %s", summary.TotalDisbursements)
	}
	if !summary.Balance.Equal(usd("1050")) {
		t.Errorf("expected balance 2250 - 1200 = 1050, got %s", summary.Balance)
	}

	// Flip the ledgers: child acknowledges more than the fund recorded.
	extra := txn(2, models.TransactionTypeIncomingFunds, "600", day("2024-03-01"))
	extra.ProviderActivityId = intPtr(1)
	f.txns = append(f.txns, extra)
	summary, err = f.service().GetFundSummary(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !summary.TotalDisbursements.Equal(usd("1500")) {
		t.Errorf("expected child-side 1500 to win, got %s", summary.TotalDisbursements)
	}
}

func TestGetFundSummaryTopDonors(t *testing.T) {
	f := summaryFixture()
	summary, err := f.service().GetFundSummary(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.DonorCount != 2 {
		t.Errorf("expected 2 distinct donors, got %d", summary.DonorCount)
	}
	if len(summary.TopDonors) != 2 {
		t.Fatalf("expected 2 top donors, got %+v", summary.TopDonors)
	}
	// Donor A: 500 pledge + 750 funds = 1250; Donor B: 1000.
	if summary.TopDonors[0].Name != "Donor A" || !summary.TopDonors[0].Total.Equal(usd("1250")) {
		t.Errorf("expected Donor A with 1250 first, got %+v", summary.TopDonors[0])
	}
	if summary.TopDonors[1].Name != "Donor B" {
		t.Errorf("expected Donor B second, got %+v", summary.TopDonors[1])
	}
}

func TestGetFundSummaryTopDonorsCapAtThree(t *testing.T) {
	f := summaryFixture()
	for _, name := range []string{"Donor C", "Donor D", "Donor E"} {
		c := txn(1, models.TransactionTypeIncomingFunds, "10", day("2024-03-01"))
		c.ProviderOrgName = name
		f.txns = append(f.txns, c)
	}

	summary, err := f.service().GetFundSummary(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.DonorCount != 5 {
		t.Errorf("expected 5 distinct donors, got %d", summary.DonorCount)
	}
	if len(summary.TopDonors) != 3 {
		t.Errorf("expected the top-3 cut, got %+v", summary.TopDonors)
	}
}

func TestGetFundSummaryTopSectorsByOccurrence(t *testing.T) {
	f := summaryFixture()
	f.sectors = []*models.ActivitySector{
		{ID: 1, ActivityId: 2, Code: "12220", Name: "Basic health care"},
		{ID: 2, ActivityId: 3, Code: "12220", Name: "Basic health care"},
		{ID: 3, ActivityId: 3, Code: "12250", Name: "Infectious disease control"},
	}

	summary, err := f.service().GetFundSummary(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.TopSectors) != 2 {
		t.Fatalf("expected 2 sectors, got %+v", summary.TopSectors)
	}
	if summary.TopSectors[0].Name != "Basic health care" || summary.TopSectors[0].Count != 2 {
		t.Errorf("expected Basic health care counted twice first, got %+v", summary.TopSectors[0])
	}
}

func TestGetFundSummarySparklineQuarters(t *testing.T) {
	f := summaryFixture()
	summary, err := f.service().GetFundSummary(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(summary.Sparkline) != 2 {
		t.Fatalf("expected 2 quarters, got %+v", summary.Sparkline)
	}
	if summary.Sparkline[0].Quarter != "2024-Q1" || !summary.Sparkline[0].Amount.Equal(usd("800")) {
		t.Errorf("expected 2024-Q1 = 800, got %+v", summary.Sparkline[0])
	}
	if summary.Sparkline[1].Quarter != "2024-Q2" || !summary.Sparkline[1].Amount.Equal(usd("400")) {
		t.Errorf("expected 2024-Q2 = 400, got %+v", summary.Sparkline[1])
	}
}

func TestGetFundSummaryToleratesDanglingOrganization(t *testing.T) {
	f := summaryFixture()
	f.orgs = nil

	summary, err := f.service().GetFundSummary(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Organization != "" {
		t.Errorf("expected a nameless summary, got %q", summary.Organization)
	}
}

func TestGetFundSummaryRejectsPlainActivity(t *testing.T) {
	f := &fixture{
		activities: []*models.Activity{
			{ID: 4, Title: "Not A Fund", IsPooledFund: false},
		},
	}
	_, err := f.service().GetFundSummary(context.Background(), 4)
	if !errors.Is(err, ErrNotPooledFund) {
		t.Errorf("expected ErrNotPooledFund, got %v", err)
	}
}

func TestGetFundSummaryUnknownFund(t *testing.T) {
	f := &fixture{}
	_, err := f.service().GetFundSummary(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
