package viewer

import (
	"context"
	"sort"
	"strings"

	"github.com/ONSdigital/ssdc-rm-form-response-adapter/logger"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/models"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type FormSort string

const (
	SortByName      FormSort = "name"
	SortByCreated   FormSort = "created"
	SortByModified  FormSort = "modified"
	SortByResponses FormSort = "responses"
)

type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

const responseCountConcurrency = 4

var ErrUnknownSort = errors.New("unknown sort")

type FormListOptions struct {
	Search string
	Sort   FormSort
	Order  SortOrder
}

// ParseFormListOptions defaults to the most recently modified forms first.
func ParseFormListOptions(search, sortBy, order string) (FormListOptions, error) {
	opts := FormListOptions{Search: search, Sort: SortByModified, Order: Descending}
	switch formSort := FormSort(strings.ToLower(sortBy)); formSort {
	case "":
	case SortByName, SortByCreated, SortByModified, SortByResponses:
		opts.Sort = formSort
	default:
		return FormListOptions{}, errors.Wrapf(ErrUnknownSort, "sort %q", sortBy)
	}
	switch sortOrder := SortOrder(strings.ToLower(order)); sortOrder {
	case "":
	case Ascending, Descending:
		opts.Order = sortOrder
	default:
		return FormListOptions{}, errors.Wrapf(ErrUnknownSort, "order %q", order)
	}
	return opts, nil
}

// ListForms returns the matching forms with their response counts.
// A form whose responses cannot be listed is counted as having none.
func (v *Viewer) ListForms(ctx context.Context, opts FormListOptions) ([]models.FormSummary, error) {
	if opts.Sort == "" {
		opts.Sort = SortByModified
	}
	if opts.Order == "" {
		opts.Order = Descending
	}

	summaries, err := v.Source.ListForms(ctx)
	if err != nil {
		return nil, err
	}
	summaries = searchForms(summaries, opts.Search)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(responseCountConcurrency)
	for i := range summaries {
		formID := summaries[i].ID
		g.Go(func() error {
			responses, err := v.Source.ListResponses(gCtx, formID)
			if err != nil {
				if gCtx.Err() != nil {
					return gCtx.Err()
				}
				logger.Logger.Errorw("Error counting form responses", "formId", formID, "error", err)
				return nil
			}
			summaries[i].ResponseCount = len(responses)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortForms(summaries, opts.Sort, opts.Order)
	return summaries, nil
}

func searchForms(summaries []models.FormSummary, search string) []models.FormSummary {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return summaries
	}
	matched := []models.FormSummary{}
	for _, summary := range summaries {
		if strings.Contains(strings.ToLower(summary.Title), term) ||
			strings.Contains(strings.ToLower(summary.Description), term) {
			matched = append(matched, summary)
		}
	}
	return matched
}

func sortForms(summaries []models.FormSummary, formSort FormSort, order SortOrder) {
	less := func(a, b models.FormSummary) bool {
		switch formSort {
		case SortByName:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case SortByCreated:
			return a.CreatedTime.Before(b.CreatedTime)
		case SortByResponses:
			return a.ResponseCount < b.ResponseCount
		default:
			return a.ModifiedTime.Before(b.ModifiedTime)
		}
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		if order == Ascending {
			return less(summaries[i], summaries[j])
		}
		return less(summaries[j], summaries[i])
	})
}
