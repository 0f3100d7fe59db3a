package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaignboard/models"
)

func TestResolveSchemaOrdersBuiltinsFirst(t *testing.T) {
	custom := []models.CustomField{
		{Name: "region", Label: "Region", Type: models.FieldTypeText},
		{Name: "approved", Label: "Approved", Type: models.FieldTypeCheckbox},
	}

	schema := ResolveSchema(custom)
	require.Len(t, schema, len(BuiltinFields)+2)

	assert.Equal(t, "name", schema[0].Key)
	assert.True(t, schema[0].Locked)

	assert.Equal(t, "custom_region", schema[len(BuiltinFields)].Key)
	assert.True(t, schema[len(BuiltinFields)].IsCustom)
	assert.Equal(t, "custom_approved", schema[len(BuiltinFields)+1].Key)
}

func TestCustomFieldName(t *testing.T) {
	name, ok := CustomFieldName("custom_region")
	require.True(t, ok)
	assert.Equal(t, "region", name)

	_, ok = CustomFieldName("budget")
	assert.False(t, ok)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "target_region", Slugify("Target Region"))
	assert.Equal(t, "q4_goal", Slugify("  Q4 Goal "))
	assert.Equal(t, "ab_test", Slugify("A/B-Test"))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestValidateDefinitionRejectsBuiltinCollision(t *testing.T) {
	cf := &models.CustomField{Name: "budget", Label: "Budget Override", Type: models.FieldTypeText}
	err := ValidateDefinition(cf, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "builtin")
}

func TestValidateDefinitionRejectsDuplicateName(t *testing.T) {
	existing := []models.CustomField{{Name: "region", Label: "Region", Type: models.FieldTypeText}}
	cf := &models.CustomField{Name: "region", Label: "Region 2", Type: models.FieldTypeText}
	err := ValidateDefinition(cf, existing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already in use")
}

func TestValidateDefinitionNameShape(t *testing.T) {
	for _, bad := range []string{"", "Region", "9lives", "has space", "dash-ed"} {
		cf := &models.CustomField{Name: bad, Label: "X", Type: models.FieldTypeText}
		assert.Error(t, ValidateDefinition(cf, nil), "name %q should be rejected", bad)
	}

	cf := &models.CustomField{Name: "region_2", Label: "Region", Type: models.FieldTypeText}
	assert.NoError(t, ValidateDefinition(cf, nil))
}

func TestValidateDefinitionSelectOptions(t *testing.T) {
	noOpts := &models.CustomField{Name: "tier", Label: "Tier", Type: models.FieldTypeSelect}
	require.Error(t, ValidateDefinition(noOpts, nil))

	withOpts := &models.CustomField{Name: "tier", Label: "Tier", Type: models.FieldTypeSelect, Options: []string{"gold", "silver"}}
	require.NoError(t, ValidateDefinition(withOpts, nil))

	textWithOpts := &models.CustomField{Name: "note", Label: "Note", Type: models.FieldTypeText, Options: []string{"x"}}
	require.Error(t, ValidateDefinition(textWithOpts, nil))
}

func TestValidateDefinitionUnknownType(t *testing.T) {
	cf := &models.CustomField{Name: "thing", Label: "Thing", Type: "radio"}
	assert.Error(t, ValidateDefinition(cf, nil))
}
