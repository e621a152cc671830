package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"bitbucket.org/mmdatafocus/aims_backend/config"
	"bitbucket.org/mmdatafocus/aims_backend/fund"
	"bitbucket.org/mmdatafocus/aims_backend/models"
	"bitbucket.org/mmdatafocus/aims_backend/models/reports"
	"github.com/sirupsen/logrus"
)

// Runs reconciliation across every pooled fund and prints a drift summary.
// Intended for a nightly schedule or an admin trigger.
func main() {
	fundId := flag.Int("fund-id", 0, "Optional: reconcile only one fund")
	exportDir := flag.String("export-dir", "", "Optional: write per-fund xlsx reports into this directory")
	flag.Parse()

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}

	logger := config.GetLogger()
	service := fund.NewGormService(logger)

	var funds []*models.Activity
	if *fundId > 0 {
		activity, err := models.GetActivityById(ctx, *fundId)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fund %d not found\n", *fundId)
			os.Exit(1)
		}
		funds = append(funds, activity)
	} else {
		var err error
		funds, err = models.GetPooledFunds(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to list pooled funds: %v\n", err)
			os.Exit(1)
		}
	}
	if len(funds) == 0 {
		fmt.Println("no pooled funds found")
		return
	}

	for _, f := range funds {
		report, err := service.GetFundReconciliation(ctx, f.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fund %d (%s): reconciliation failed: %v\n", f.ID, f.Title, err)
			continue
		}

		logger.WithFields(logrus.Fields{
			"fund_id":            f.ID,
			"fund_name":          f.Title,
			"children":           len(report.Children),
			"percent_reconciled": report.Summary.PercentReconciled,
			"total_discrepancy":  report.Summary.TotalDiscrepancy.String(),
		}).Info("fund reconciled")

		fmt.Printf("fund=%d name=%q children=%d reconciled=%d%% discrepancy=%s\n",
			f.ID, f.Title, len(report.Children),
			report.Summary.PercentReconciled, report.Summary.TotalDiscrepancy)

		if *exportDir != "" {
			path := filepath.Join(*exportDir, fmt.Sprintf("fund-%d-reconciliation.xlsx", f.ID))
			out, err := os.Create(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "fund %d: create %s: %v\n", f.ID, path, err)
				continue
			}
			if err := reports.ExportFundReconciliation(out, report); err != nil {
				fmt.Fprintf(os.Stderr, "fund %d: export failed: %v\n", f.ID, err)
			}
			out.Close()
		}
	}
}
