package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaignboard/models"
)

func viewer(allowed []uint, viewAll bool, fields []string) *models.User {
	return &models.User{
		Role:             models.RoleViewer,
		AllowedCampaigns: allowed,
		ViewAllCampaigns: viewAll,
		VisibleFields:    fields,
	}
}

func TestVisibleColumnsEmptyListMeansEverything(t *testing.T) {
	schema := ResolveSchema([]models.CustomField{{Name: "region", Label: "Region", Type: models.FieldTypeText}})
	cols := VisibleColumns(viewer(nil, false, []string{}), schema)
	assert.Equal(t, schema, cols)
}

func TestVisibleColumnsNameAlwaysIncluded(t *testing.T) {
	schema := ResolveSchema(nil)

	// The stored list deliberately omits the name column.
	cols := VisibleColumns(viewer(nil, false, []string{"budget", "status"}), schema)

	keys := make([]string, len(cols))
	for i, f := range cols {
		keys[i] = f.Key
	}
	assert.Contains(t, keys, "name")
	assert.ElementsMatch(t, []string{"name", "budget", "status"}, keys)
}

func TestVisibleColumnsAdminSeesAll(t *testing.T) {
	schema := ResolveSchema(nil)
	admin := &models.User{Role: models.RoleAdmin, VisibleFields: []string{"budget"}}
	assert.Equal(t, schema, VisibleColumns(admin, schema))
}

func TestSanitizeVisibleFieldsForcesLockedAndDropsUnknown(t *testing.T) {
	schema := ResolveSchema([]models.CustomField{{Name: "region", Label: "Region", Type: models.FieldTypeText}})

	out := SanitizeVisibleFields([]string{"budget", "nonsense", "custom_region"}, schema)
	assert.Equal(t, []string{"name", "budget", "custom_region"}, out)
}

func TestSanitizeVisibleFieldsEmptyStaysEmpty(t *testing.T) {
	schema := ResolveSchema(nil)
	out := SanitizeVisibleFields(nil, schema)
	require.NotNil(t, out)
	assert.Empty(t, out)
}

func TestCanSeeCampaignViewAllOverridesList(t *testing.T) {
	u := viewer([]uint{1}, true, nil)

	// View-all wins even for campaigns never listed, which covers
	// campaigns created after the permissions were saved.
	assert.True(t, u.CanSeeCampaign(999))
}

func TestCanSeeCampaignScopedList(t *testing.T) {
	u := viewer([]uint{3, 5}, false, nil)
	assert.True(t, u.CanSeeCampaign(5))
	assert.False(t, u.CanSeeCampaign(4))
}

func TestFilterCampaigns(t *testing.T) {
	campaigns := []models.Campaign{
		{Name: "A"}, {Name: "B"}, {Name: "C"},
	}
	campaigns[0].ID = 1
	campaigns[1].ID = 2
	campaigns[2].ID = 3

	scoped := FilterCampaigns(viewer([]uint{2}, false, nil), campaigns)
	require.Len(t, scoped, 1)
	assert.Equal(t, "B", scoped[0].Name)

	all := FilterCampaigns(viewer(nil, true, nil), campaigns)
	assert.Len(t, all, 3)
}
