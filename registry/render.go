package registry

import (
	"fmt"

	"campaignboard/models"
)

// EmptyPlaceholder is shown for blank metric cells.
const EmptyPlaceholder = "—"

// DeriveBudget builds the budget display value from the campaign's
// budget type, e.g. "$50/day" or "$1000 lifetime".
func DeriveBudget(c *models.Campaign) string {
	if c.BudgetType == models.BudgetTypeLifetime {
		return fmt.Sprintf("$%s lifetime", c.LifetimeBudget)
	}
	return fmt.Sprintf("$%s/day", c.DailyBudget)
}

// DeriveDelivery maps a campaign status to its delivery label.
func DeriveDelivery(status string) string {
	switch status {
	case models.CampaignStatusActive:
		return "Active"
	case models.CampaignStatusDraft:
		return "In draft"
	default:
		return "Scheduled"
	}
}

// RenderValue formats one campaign cell for display. Custom fields
// read the value bag: booleans become Yes/No, blanks become the em
// dash placeholder, everything else is coerced to a string.
func RenderValue(field Field, c *models.Campaign) string {
	if name, ok := CustomFieldName(field.Key); ok {
		val, exists := c.CustomFields[name]
		if !exists || val == nil || val == "" {
			return EmptyPlaceholder
		}
		if b, ok := val.(bool); ok {
			if b {
				return "Yes"
			}
			return "No"
		}
		return fmt.Sprintf("%v", val)
	}

	switch field.Key {
	case "name":
		return c.Name
	case "status":
		return c.Status
	case "active":
		if c.Active {
			return "On"
		}
		return "Off"
	case "delivery":
		return orPlaceholder(c.Delivery)
	case "actions":
		return orPlaceholder(c.Actions)
	case "results":
		return orPlaceholder(c.Results)
	case "costPerResult":
		return orPlaceholder(c.CostPerResult)
	case "budget":
		return orPlaceholder(c.Budget)
	case "amountSpent":
		return orPlaceholder(c.AmountSpent)
	case "impressions":
		return orPlaceholder(c.Impressions)
	case "reach":
		return orPlaceholder(c.Reach)
	case "endDate":
		return orPlaceholder(c.EndDate)
	default:
		return EmptyPlaceholder
	}
}

func orPlaceholder(s string) string {
	if s == "" {
		return EmptyPlaceholder
	}
	return s
}

// ValidateCustomValues checks submitted custom values against the
// stored definitions. Checkbox values must be booleans; every other
// type passes through as submitted. Values for deleted definitions are
// tolerated so older records keep loading.
func ValidateCustomValues(values map[string]interface{}, defs []models.CustomField) error {
	byName := make(map[string]models.CustomField, len(defs))
	for _, d := range defs {
		byName[d.Name] = d
	}

	for _, d := range defs {
		if !d.Required {
			continue
		}
		val, ok := values[d.Name]
		if !ok || val == nil || val == "" {
			return fmt.Errorf("%s is required", d.Label)
		}
	}

	for name, val := range values {
		d, ok := byName[name]
		if !ok {
			continue
		}
		if d.Type == models.FieldTypeCheckbox && val != nil {
			if _, isBool := val.(bool); !isBool {
				return fmt.Errorf("%s must be true or false", d.Label)
			}
		}
		if d.Type == models.FieldTypeSelect && val != nil && val != "" {
			s, isStr := val.(string)
			if !isStr {
				return fmt.Errorf("%s must be one of its options", d.Label)
			}
			found := false
			for _, opt := range d.Options {
				if opt == s {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("%s must be one of its options", d.Label)
			}
		}
	}
	return nil
}
