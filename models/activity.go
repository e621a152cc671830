package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/aims_backend/config"
	"bitbucket.org/mmdatafocus/aims_backend/utils"
	"gorm.io/gorm"
)

// normalizeNotFound maps gorm's missing-row error to the shared sentinel and
// leaves every other failure (connectivity, syntax) untouched so callers can
// tell an absent record from a broken datastore.
func normalizeNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.ErrorRecordNotFound
	}
	return err
}

// Activity is an IATI aid activity. It is owned and mutated by the external
// editing system; this service only ever reads it.
type Activity struct {
	ID                      int            `gorm:"primary_key" json:"id"`
	IatiIdentifier          string         `gorm:"size:255;index" json:"iati_identifier"`
	Title                   string         `gorm:"size:500;not null" json:"title"`
	Status                  ActivityStatus `gorm:"size:50;index" json:"status"`
	PlannedStartDate        *time.Time     `json:"planned_start_date"`
	PlannedEndDate          *time.Time     `json:"planned_end_date"`
	ActualStartDate         *time.Time     `json:"actual_start_date"`
	ActualEndDate           *time.Time     `json:"actual_end_date"`
	IsPooledFund            bool           `gorm:"index;default:false" json:"is_pooled_fund"`
	ReportingOrganizationId *int           `gorm:"index" json:"reporting_organization_id"`
	CreatedAt               time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt               time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a Activity) GetId() int {
	return a.ID
}

func (a Activity) GetDefault(id int) interface{} {
	return Activity{ID: id}
}

// DateRange renders the activity's planned window for dashboards.
func (a *Activity) DateRange() string {
	const layout = "2006-01-02"
	start, end := "?", "?"
	if a.PlannedStartDate != nil {
		start = a.PlannedStartDate.Format(layout)
	}
	if a.PlannedEndDate != nil {
		end = a.PlannedEndDate.Format(layout)
	}
	return start + " - " + end
}

func GetActivityById(ctx context.Context, id int) (*Activity, error) {
	db := config.GetDB()
	var result Activity
	if err := db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, normalizeNotFound(err)
	}
	return &result, nil
}

func GetActivitiesByIds(ctx context.Context, ids []int) ([]*Activity, error) {
	db := config.GetDB()
	var results []*Activity
	if len(ids) == 0 {
		return results, nil
	}
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetPooledFunds lists every activity flagged as a pooled fund. Used by the
// batch reconciliation job.
func GetPooledFunds(ctx context.Context) ([]*Activity, error) {
	db := config.GetDB()
	var results []*Activity
	if err := db.WithContext(ctx).Where("is_pooled_fund = ?", true).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
