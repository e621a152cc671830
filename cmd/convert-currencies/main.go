package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"bitbucket.org/mmdatafocus/aims_backend/config"
	"bitbucket.org/mmdatafocus/aims_backend/models"
	"bitbucket.org/mmdatafocus/aims_backend/utils"
	"github.com/bsm/redislock"
)

// Backfills transactions.value_usd from the currency_exchanges rate table.
// Transactions with no usable rate are skipped and reported; they keep falling
// back to their raw value in reports until a rate arrives.
func main() {
	batchSize := flag.Int("batch-size", 500, "Max transactions to convert per run (0 = no limit)")
	dryRun := flag.Bool("dry-run", false, "Report conversions without writing")
	flag.Parse()

	ctx := context.Background()
	// Explicit DB connect (config no longer connects DB in init()).
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	// Only one replica should run the backfill at a time.
	if locker := config.GetRedisLock(); locker != nil {
		lock, err := locker.Obtain(ctx, "lock:convert-currencies", 10*time.Minute, nil)
		if err == redislock.ErrNotObtained {
			fmt.Println("another convert-currencies run is active; exiting")
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to obtain lock: %v\n", err)
			os.Exit(1)
		}
		defer lock.Release(ctx)
	}

	txns, err := models.GetUnconvertedTransactions(ctx, *batchSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list unconverted transactions: %v\n", err)
		os.Exit(1)
	}
	if len(txns) == 0 {
		fmt.Println("no unconverted transactions found")
		return
	}

	var converted, skipped int
	for _, txn := range txns {
		date := txn.Date()
		if date == nil {
			skipped++
			continue
		}
		rate, err := models.GetExchangeRate(ctx, txn.Currency, *date)
		if err != nil {
			if err == utils.ErrorRecordNotFound {
				skipped++
				continue
			}
			fmt.Fprintf(os.Stderr, "transaction %d: rate lookup failed: %v\n", txn.ID, err)
			os.Exit(1)
		}
		if rate.IsZero() {
			skipped++
			continue
		}

		usd := txn.Value.Mul(rate).Round(4)
		if *dryRun {
			fmt.Printf("would convert transaction %d: %s %s -> %s USD (rate %s)\n",
				txn.ID, txn.Value, txn.Currency, usd, rate)
			converted++
			continue
		}

		if err := db.WithContext(ctx).Model(&models.Transaction{}).
			Where("id = ? AND value_usd IS NULL", txn.ID).
			Update("value_usd", usd).Error; err != nil {
			fmt.Fprintf(os.Stderr, "transaction %d: update failed: %v\n", txn.ID, err)
			os.Exit(1)
		}
		converted++
	}

	fmt.Printf("converted=%d skipped=%d (dry-run=%v)\n", converted, skipped, *dryRun)
}
