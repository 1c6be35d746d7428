package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFormDefinition(t *testing.T) {
	// Given
	path := filepath.Join(t.TempDir(), "form.yaml")
	definition := `
title: Client Information Form
description: Please fill out all required information.
questions:
  - title: Full Name
    kind: SHORT_TEXT
    required: true
  - title: Preferred contact
    kind: SINGLE_CHOICE
    options: [Email, Phone]
  - title: ID Expiry
    kind: DATE
    required: true
`
	require.NoError(t, os.WriteFile(path, []byte(definition), 0600))

	// When
	def, err := LoadFormDefinition(path)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "Client Information Form", def.Title)
	assert.Len(t, def.Questions, 3)
	assert.Equal(t, SingleChoice, def.Questions[1].Kind)
	assert.Equal(t, []string{"Email", "Phone"}, def.Questions[1].Options)
}

func TestFormDefinition_Validate(t *testing.T) {
	t.Run("Valid definition", testFormDefinitionValidate(FormDefinition{
		Title:     "Form",
		Questions: []QuestionDefinition{{Title: "Name", Kind: ShortText}},
	}, true))
	t.Run("Missing title", testFormDefinitionValidate(FormDefinition{}, false))
	t.Run("Unknown kind", testFormDefinitionValidate(FormDefinition{
		Title:     "Form",
		Questions: []QuestionDefinition{{Title: "Name", Kind: "CHECKBOX"}},
	}, false))
	t.Run("Choice without options", testFormDefinitionValidate(FormDefinition{
		Title:     "Form",
		Questions: []QuestionDefinition{{Title: "Pick", Kind: SingleChoice}},
	}, false))
}

func testFormDefinitionValidate(def FormDefinition, valid bool) func(*testing.T) {
	return func(t *testing.T) {
		err := def.Validate()
		if valid {
			assert.NoError(t, err)
		} else {
			assert.Error(t, err)
		}
	}
}
