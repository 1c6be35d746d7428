package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/ONSdigital/ssdc-rm-form-response-adapter/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalized(id string, expiring bool, submittedAt time.Time, pairs ...string) models.NormalizedResponse {
	fields := models.NewFields()
	for i := 0; i+1 < len(pairs); i += 2 {
		fields.Set(pairs[i], pairs[i+1])
	}
	return models.NormalizedResponse{ID: id, SubmittedAt: submittedAt, Fields: fields, IsExpiringSoon: expiring}
}

var submitted = time.Date(2026, 10, 9, 10, 0, 0, 0, time.UTC)

func TestWriteCSV(t *testing.T) {
	// Given
	responses := []models.NormalizedResponse{
		normalized("resp_1", true, submitted, "Full Name", "John Smith", "Address", "123 Main St, City", "ID Expiry", "2026-10-29"),
		normalized("resp_2", false, submitted.Add(time.Hour), "Full Name", `Jane "JD" Doe`, "Image ID", "a.png, b.png"),
	}
	var buf bytes.Buffer

	// When
	err := WriteCSV(&buf, responses)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "Timestamp,Status,Full Name,Address,ID Expiry,Image ID\n"+
		"2026-10-09 10:00:00,ID Expiring Soon,John Smith,\"123 Main St, City\",2026-10-29,\n"+
		"2026-10-09 11:00:00,Active,\"Jane \"\"JD\"\" Doe\",,,\"a.png, b.png\"\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	err := WriteJSON(&buf, []models.NormalizedResponse{normalized("resp_1", true, submitted, "Full Name", "John Smith")})

	require.NoError(t, err)
	assert.JSONEq(t, `{"responses":[{"id":"resp_1","timestamp":"2026-10-09T10:00:00Z","responses":{"Full Name":"John Smith"},"isExpiringSoon":true}]}`, buf.String())
}

func TestWriteRejectsEmptyAndUnknown(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, errors.Is(Write(&buf, FormatCSV, nil), ErrNoResponses))
	assert.True(t, errors.Is(Write(&buf, FormatJSON, nil), ErrNoResponses))
	assert.True(t, errors.Is(Write(&buf, "xlsx", []models.NormalizedResponse{normalized("r", false, submitted)}), ErrUnsupportedFormat))
	assert.Empty(t, buf.String())
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Client Information Form_responses.csv", FileName("Client Information Form", FormatCSV))
	assert.Equal(t, "form_responses.csv", FileName("  ", ""))
	assert.Equal(t, "Intake_2026_responses.json", FileName("Intake/2026", FormatJSON))
}
