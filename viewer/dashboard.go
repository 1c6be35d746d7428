package viewer

import (
	"context"
	"math"
	"strings"

	"github.com/ONSdigital/ssdc-rm-form-response-adapter/logger"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/models"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/reconciler"
	"golang.org/x/sync/errgroup"
)

const (
	dashboardFormLimit    = 10
	dashboardConcurrency  = 4
	recentActivityLimit   = 5
	activityTypeResponses = "responses"
)

type formStats struct {
	form     models.Form
	total    int
	recent   int
	expiring int
}

// Dashboard summarises the first forms of the source. Forms that fail to load are logged and skipped.
func (v *Viewer) Dashboard(ctx context.Context) (models.DashboardStats, error) {
	summaries, err := v.Source.ListForms(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}

	inspected := summaries
	if len(inspected) > dashboardFormLimit {
		inspected = inspected[:dashboardFormLimit]
	}

	results := make([]*formStats, len(inspected))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(dashboardConcurrency)
	for i, summary := range inspected {
		formID := summary.ID
		g.Go(func() error {
			stats, err := v.formStats(gCtx, formID)
			if err != nil {
				if gCtx.Err() != nil {
					return gCtx.Err()
				}
				logger.Logger.Errorw("Error processing form for dashboard", "formId", formID, "error", err)
				return nil
			}
			results[i] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, err
	}

	now := v.now()
	dashboard := models.DashboardStats{TotalForms: len(summaries), RecentActivity: []models.Activity{}}
	for _, stats := range results {
		if stats == nil {
			continue
		}
		if stats.form.PublishedURL != "" {
			dashboard.ActiveForms++
		}
		dashboard.TotalResponses += stats.total
		dashboard.RecentResponses += stats.recent
		dashboard.ExpiringIDs += stats.expiring
		if stats.recent > 0 && len(dashboard.RecentActivity) < recentActivityLimit {
			dashboard.RecentActivity = append(dashboard.RecentActivity, models.Activity{
				Type:      activityTypeResponses,
				FormID:    stats.form.ID,
				FormTitle: stats.form.Title,
				Count:     stats.recent,
				Timestamp: now,
			})
		}
	}
	if dashboard.TotalForms > 0 {
		dashboard.AverageResponsesPerForm = int(math.Round(float64(dashboard.TotalResponses) / float64(dashboard.TotalForms)))
	}
	return dashboard, nil
}

// formStats counts expiring IDs with the strict policy, only dates still ahead of now count.
func (v *Viewer) formStats(ctx context.Context, formID string) (*formStats, error) {
	form, raws, err := v.loadRaw(ctx, formID)
	if err != nil {
		return nil, err
	}
	now := v.now()
	strict := v.Reconciler.Policy.Strict()

	expiryQuestions := []models.Question{}
	for _, q := range form.Questions {
		if strings.Contains(strings.ToLower(q.Title), "expiry") {
			expiryQuestions = append(expiryQuestions, q)
		}
	}

	stats := &formStats{form: form, total: len(raws)}
	for _, raw := range raws {
		if reconciler.IsRecent(raw.SubmittedAt, now) {
			stats.recent++
		}
		for _, q := range expiryQuestions {
			if text, ok := raw.Answers[q.ID].(models.TextValue); ok && strict.IsExpiringSoon(string(text), now) {
				stats.expiring++
			}
		}
	}
	return stats, nil
}
