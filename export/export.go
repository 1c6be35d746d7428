package export

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/ONSdigital/ssdc-rm-form-response-adapter/models"
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const (
	FormatCSV  = "csv"
	FormatJSON = "json"

	timestampLayout = "2006-01-02 15:04:05"
	statusExpiring  = "ID Expiring Soon"
	statusActive    = "Active"
)

var (
	ErrNoResponses       = errors.New("no responses to export")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// Titles is the union of field titles over all responses, in first seen order.
func Titles(responses []models.NormalizedResponse) []string {
	seen := map[string]bool{}
	titles := []string{}
	for _, response := range responses {
		for _, title := range response.Fields.Titles() {
			if !seen[title] {
				seen[title] = true
				titles = append(titles, title)
			}
		}
	}
	return titles
}

func Status(response models.NormalizedResponse) string {
	if response.IsExpiringSoon {
		return statusExpiring
	}
	return statusActive
}

func WriteCSV(w io.Writer, responses []models.NormalizedResponse) error {
	if len(responses) == 0 {
		return ErrNoResponses
	}
	titles := Titles(responses)
	csvWriter := csv.NewWriter(w)

	header := append([]string{"Timestamp", "Status"}, titles...)
	if err := csvWriter.Write(header); err != nil {
		return errors.Wrap(err, "error writing csv header")
	}
	for _, response := range responses {
		record := make([]string, 0, len(header))
		record = append(record, response.SubmittedAt.UTC().Format(timestampLayout), Status(response))
		for _, title := range titles {
			record = append(record, response.Fields.Value(title))
		}
		if err := csvWriter.Write(record); err != nil {
			return errors.Wrapf(err, "error writing csv record for response %s", response.ID)
		}
	}
	csvWriter.Flush()
	return errors.Wrap(csvWriter.Error(), "error flushing csv")
}

type jsonExport struct {
	Responses []models.NormalizedResponse `json:"responses"`
}

func WriteJSON(w io.Writer, responses []models.NormalizedResponse) error {
	if len(responses) == 0 {
		return ErrNoResponses
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(jsonExport{Responses: responses}), "error writing json export")
}

func Write(w io.Writer, format string, responses []models.NormalizedResponse) error {
	switch strings.ToLower(format) {
	case "", FormatCSV:
		return WriteCSV(w, responses)
	case FormatJSON:
		return WriteJSON(w, responses)
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}
}

// FileName names the download after the form title.
func FileName(formTitle, format string) string {
	if strings.TrimSpace(formTitle) == "" {
		formTitle = "form"
	}
	if format == "" {
		format = FormatCSV
	}
	replacer := strings.NewReplacer("/", "_", "\\", "_", "\"", "")
	return replacer.Replace(formTitle) + "_responses." + format
}
