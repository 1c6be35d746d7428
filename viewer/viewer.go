package viewer

import (
	"context"
	"time"

	"github.com/ONSdigital/ssdc-rm-form-response-adapter/models"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/reconciler"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/source"
	"github.com/pkg/errors"
)

// Viewer performs view loads against an injected form source.
type Viewer struct {
	Source     source.FormSource
	Reconciler *reconciler.Reconciler
}

func New(formSource source.FormSource, r *reconciler.Reconciler) *Viewer {
	return &Viewer{Source: formSource, Reconciler: r}
}

func (v *Viewer) now() time.Time {
	return v.Reconciler.Now()
}

// LoadForm fetches and parses the form definition only.
func (v *Viewer) LoadForm(ctx context.Context, formID string) (models.Form, error) {
	apiForm, err := v.Source.GetForm(ctx, formID)
	if err != nil {
		return models.Form{}, err
	}
	form, err := models.ParseForm(apiForm)
	if err != nil {
		return models.Form{}, errors.Wrapf(err, "error parsing form %s", formID)
	}
	return form, nil
}

func (v *Viewer) loadRaw(ctx context.Context, formID string) (models.Form, []models.RawResponse, error) {
	form, err := v.LoadForm(ctx, formID)
	if err != nil {
		return models.Form{}, nil, err
	}
	apiResponses, err := v.Source.ListResponses(ctx, formID)
	if err != nil {
		return models.Form{}, nil, err
	}
	raws, err := models.ParseFormResponses(apiResponses)
	if err != nil {
		return models.Form{}, nil, errors.Wrapf(err, "error parsing responses of form %s", formID)
	}
	return form, raws, nil
}

// Load returns the form and its normalised responses, they are recomputed on every call.
func (v *Viewer) Load(ctx context.Context, formID string) (models.Form, []models.NormalizedResponse, error) {
	form, raws, err := v.loadRaw(ctx, formID)
	if err != nil {
		return models.Form{}, nil, err
	}
	return form, v.Reconciler.Reconcile(form, raws), nil
}

func (v *Viewer) LoadFiltered(ctx context.Context, formID string, opts reconciler.FilterOptions) (models.Form, []models.NormalizedResponse, error) {
	form, responses, err := v.Load(ctx, formID)
	if err != nil {
		return models.Form{}, nil, err
	}
	filtered, err := reconciler.Filter(responses, opts, v.now())
	if err != nil {
		return models.Form{}, nil, err
	}
	return form, filtered, nil
}
