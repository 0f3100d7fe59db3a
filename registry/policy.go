package registry

import (
	"campaignboard/models"
)

// VisibleColumns filters the resolved schema down to what the user may
// see. An empty visibleFields list means everything; the locked name
// column is always included even when the stored list omits it.
func VisibleColumns(user *models.User, schema []Field) []Field {
	if user.IsAdmin() || len(user.VisibleFields) == 0 {
		return schema
	}

	allowed := make(map[string]struct{}, len(user.VisibleFields))
	for _, key := range user.VisibleFields {
		allowed[key] = struct{}{}
	}

	visible := make([]Field, 0, len(schema))
	for _, f := range schema {
		if f.Locked {
			visible = append(visible, f)
			continue
		}
		if _, ok := allowed[f.Key]; ok {
			visible = append(visible, f)
		}
	}
	return visible
}

// SanitizeVisibleFields normalizes a visibleFields list before it is
// stored: unknown keys are dropped and locked columns are forced in.
// An empty result stays empty, which grants full visibility.
func SanitizeVisibleFields(keys []string, schema []Field) []string {
	if len(keys) == 0 {
		return []string{}
	}

	known := make(map[string]Field, len(schema))
	for _, f := range schema {
		known[f.Key] = f
	}

	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys)+1)
	for _, f := range schema {
		if !f.Locked {
			continue
		}
		out = append(out, f.Key)
		seen[f.Key] = struct{}{}
	}
	for _, key := range keys {
		if _, dup := seen[key]; dup {
			continue
		}
		if _, ok := known[key]; !ok {
			continue
		}
		out = append(out, key)
		seen[key] = struct{}{}
	}
	return out
}

// FilterCampaigns keeps only the campaigns the user may read.
func FilterCampaigns(user *models.User, campaigns []models.Campaign) []models.Campaign {
	if user.IsAdmin() || user.ViewAllCampaigns {
		return campaigns
	}
	out := make([]models.Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if user.CanSeeCampaign(c.ID) {
			out = append(out, c)
		}
	}
	return out
}
