package source

import (
	"context"
	"net/http"
	"time"

	"github.com/ONSdigital/ssdc-rm-form-response-adapter/logger"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/models"
	"github.com/pkg/errors"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/forms/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	formMimeType     = "application/vnd.google-apps.form"
	driveFormsQuery  = "mimeType='" + formMimeType + "' and trashed=false"
	driveFilesFields = "nextPageToken, files(id, name, description, createdTime, modifiedTime, webViewLink)"
)

// Google reads forms through the Forms API and lists them through Drive.
type Google struct {
	forms *forms.Service
	drive *drive.Service
}

var _ FormSource = (*Google)(nil)

func NewGoogle(ctx context.Context, opts ...option.ClientOption) (*Google, error) {
	formsService, err := forms.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "error setting up forms client")
	}
	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "error setting up drive client")
	}
	return &Google{forms: formsService, drive: driveService}, nil
}

func (g *Google) ListForms(ctx context.Context) ([]models.FormSummary, error) {
	summaries := []models.FormSummary{}
	err := g.drive.Files.List().
		Q(driveFormsQuery).
		Fields(googleapi.Field(driveFilesFields)).
		Pages(ctx, func(list *drive.FileList) error {
			for _, f := range list.Files {
				summary := models.FormSummary{
					ID:           f.Id,
					Title:        f.Name,
					Description:  f.Description,
					PublishedURL: PublishedURL(f.Id),
					EditURL:      EditURL(f.Id),
				}
				summary.CreatedTime, _ = time.Parse(time.RFC3339Nano, f.CreatedTime)
				summary.ModifiedTime, _ = time.Parse(time.RFC3339Nano, f.ModifiedTime)
				summaries = append(summaries, summary)
			}
			return nil
		})
	if err != nil {
		return nil, errors.Wrap(err, "error listing forms from drive")
	}
	return summaries, nil
}

func (g *Google) GetForm(ctx context.Context, formID string) (*forms.Form, error) {
	form, err := g.forms.Forms.Get(formID).Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError(err, formID, "error getting form")
	}
	return form, nil
}

func (g *Google) ListResponses(ctx context.Context, formID string) ([]*forms.FormResponse, error) {
	var responses []*forms.FormResponse
	err := g.forms.Forms.Responses.List(formID).
		Pages(ctx, func(page *forms.ListFormResponsesResponse) error {
			responses = append(responses, page.Responses...)
			return nil
		})
	if err != nil {
		return nil, wrapAPIError(err, formID, "error listing form responses")
	}
	return responses, nil
}

// CreateForm creates the form with its title, the API only accepts description and items through a batch update.
func (g *Google) CreateForm(ctx context.Context, def models.FormDefinition) (*forms.Form, error) {
	if err := def.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid form definition")
	}
	created, err := g.forms.Forms.Create(&forms.Form{
		Info: &forms.Info{Title: def.Title, DocumentTitle: def.Title},
	}).Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrap(err, "error creating form")
	}

	requests := []*forms.Request{}
	if def.Description != "" {
		requests = append(requests, &forms.Request{
			UpdateFormInfo: &forms.UpdateFormInfoRequest{
				Info:       &forms.Info{Description: def.Description},
				UpdateMask: "description",
			},
		})
	}
	for i, item := range BuildItems(def) {
		// Question IDs are assigned by the API
		item.QuestionItem.Question.QuestionId = ""
		requests = append(requests, &forms.Request{
			CreateItem: &forms.CreateItemRequest{
				Item:     item,
				Location: &forms.Location{Index: int64(i), ForceSendFields: []string{"Index"}},
			},
		})
	}
	if len(requests) > 0 {
		_, err := g.forms.Forms.BatchUpdate(created.FormId, &forms.BatchUpdateFormRequest{
			Requests: requests,
		}).Context(ctx).Do()
		if err != nil {
			return nil, errors.Wrapf(err, "error adding items to form %s", created.FormId)
		}
	}
	return g.GetForm(ctx, created.FormId)
}

// DeleteForm removes the form's Drive file, responses go with it.
func (g *Google) DeleteForm(ctx context.Context, formID string) error {
	if err := g.drive.Files.Delete(formID).Context(ctx).Do(); err != nil {
		return wrapAPIError(err, formID, "error deleting form")
	}
	logger.Logger.Infow("Deleted form", "formId", formID)
	return nil
}

func wrapAPIError(err error, formID string, msg string) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
		return errors.Wrapf(ErrFormNotFound, "form %s", formID)
	}
	return errors.Wrapf(err, "%s %s", msg, formID)
}
