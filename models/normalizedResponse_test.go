package models

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsKeepFirstInsertionPosition(t *testing.T) {
	fields := NewFields()
	fields.Set("Name", "Ann")
	fields.Set("ID Expiry", "2026-10-24")
	fields.Set("Name", "Bob")

	assert.Equal(t, []string{"Name", "ID Expiry"}, fields.Titles())
	assert.Equal(t, "Bob", fields.Value("Name"))
	assert.Equal(t, 2, fields.Len())

	_, ok := fields.Get("Missing")
	assert.False(t, ok)
	assert.Equal(t, "", fields.Value("Missing"))
}

func TestFieldsMarshalJSONInOrder(t *testing.T) {
	fields := NewFields()
	fields.Set("Zeta", "last letter")
	fields.Set("Alpha", `quote " inside`)

	data, err := json.Marshal(NormalizedResponse{ID: "resp_1", Fields: fields})
	require.NoError(t, err)

	assert.Contains(t, string(data), `"responses":{"Zeta":"last letter","Alpha":"quote \" inside"}`)
}

func TestNilFields(t *testing.T) {
	var fields *Fields
	assert.Equal(t, 0, fields.Len())
	assert.Nil(t, fields.Titles())
	assert.Equal(t, "", fields.Value("Name"))
}
