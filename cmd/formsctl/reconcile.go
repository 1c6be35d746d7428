package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/ONSdigital/ssdc-rm-form-response-adapter/export"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/models"
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"google.golang.org/api/forms/v1"
)

func newReconcileCmd(opts *rootOptions) *cobra.Command {
	var formPath, responsesPath, format, now string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile Forms API JSON files into display records",
		Long: `Reads a form and its responses as returned by the Google Forms API
and prints one record per response keyed by question title.

The responses file may hold either a bare array of responses or a
forms.responses.list body with a "responses" field.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if now != "" {
				at, err := time.Parse(time.RFC3339, now)
				if err != nil {
					return errors.Wrap(err, "invalid --now")
				}
				opts.now = func() time.Time { return at }
			}

			form, raws, err := readReconcileInput(formPath, responsesPath)
			if err != nil {
				return err
			}
			responses := opts.reconciler().Reconcile(form, raws)

			err = export.Write(cmd.OutOrStdout(), format, responses)
			if errors.Is(err, export.ErrNoResponses) {
				fmt.Fprintln(cmd.ErrOrStderr(), "No responses to reconcile")
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&formPath, "form", "", "form JSON file")
	cmd.Flags().StringVar(&responsesPath, "responses", "", "responses JSON file")
	cmd.Flags().StringVar(&format, "format", export.FormatJSON, "output format, json or csv")
	cmd.Flags().StringVar(&now, "now", "", "reference time as RFC3339, defaults to the current time")
	_ = cmd.MarkFlagRequired("form")
	_ = cmd.MarkFlagRequired("responses")
	return cmd
}

func readReconcileInput(formPath, responsesPath string) (models.Form, []models.RawResponse, error) {
	formData, err := os.ReadFile(formPath)
	if err != nil {
		return models.Form{}, nil, errors.Wrap(err, "error reading form file")
	}
	apiForm := &forms.Form{}
	if err := json.Unmarshal(formData, apiForm); err != nil {
		return models.Form{}, nil, errors.Wrap(err, "error decoding form file")
	}
	form, err := models.ParseForm(apiForm)
	if err != nil {
		return models.Form{}, nil, err
	}

	responsesData, err := os.ReadFile(responsesPath)
	if err != nil {
		return models.Form{}, nil, errors.Wrap(err, "error reading responses file")
	}
	apiResponses, err := decodeResponses(responsesData)
	if err != nil {
		return models.Form{}, nil, err
	}
	raws, err := models.ParseFormResponses(apiResponses)
	if err != nil {
		return models.Form{}, nil, err
	}
	return form, raws, nil
}

func decodeResponses(data []byte) ([]*forms.FormResponse, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		list := &forms.ListFormResponsesResponse{}
		if err := json.Unmarshal(trimmed, list); err != nil {
			return nil, errors.Wrap(err, "error decoding responses file")
		}
		return list.Responses, nil
	}
	var responses []*forms.FormResponse
	if err := json.Unmarshal(trimmed, &responses); err != nil {
		return nil, errors.Wrap(err, "error decoding responses file")
	}
	return responses, nil
}
