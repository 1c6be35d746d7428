package reconciler

import (
	"strings"
	"time"

	"github.com/ONSdigital/ssdc-rm-form-response-adapter/models"
	"github.com/pkg/errors"
)

type FilterCategory string

const (
	FilterAll      FilterCategory = "all"
	FilterExpiring FilterCategory = "expiring"
	FilterRecent   FilterCategory = "recent"

	RecentWindow = 7 * 24 * time.Hour
)

var ErrUnknownFilter = errors.New("unknown filter")

type FilterOptions struct {
	Search   string
	Category FilterCategory
}

// ParseFilterCategory treats an empty value as FilterAll.
func ParseFilterCategory(value string) (FilterCategory, error) {
	switch category := FilterCategory(strings.ToLower(value)); category {
	case "", FilterAll:
		return FilterAll, nil
	case FilterExpiring, FilterRecent:
		return category, nil
	default:
		return "", errors.Wrapf(ErrUnknownFilter, "%q", value)
	}
}

// Filter applies the search term first and then the category.
func Filter(responses []models.NormalizedResponse, opts FilterOptions, now time.Time) ([]models.NormalizedResponse, error) {
	category, err := ParseFilterCategory(string(opts.Category))
	if err != nil {
		return nil, err
	}
	search := strings.ToLower(opts.Search)

	filtered := make([]models.NormalizedResponse, 0, len(responses))
	for _, response := range responses {
		if search != "" && !matchesSearch(response.Fields, search) {
			continue
		}
		switch category {
		case FilterExpiring:
			if !response.IsExpiringSoon {
				continue
			}
		case FilterRecent:
			if !IsRecent(response.SubmittedAt, now) {
				continue
			}
		}
		filtered = append(filtered, response)
	}
	return filtered, nil
}

func IsRecent(submittedAt time.Time, now time.Time) bool {
	return !submittedAt.Before(now.Add(-RecentWindow))
}

func matchesSearch(fields *models.Fields, search string) bool {
	for _, title := range fields.Titles() {
		if strings.Contains(strings.ToLower(fields.Value(title)), search) {
			return true
		}
	}
	return false
}
