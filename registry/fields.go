// Package registry resolves the campaign field schema and applies
// per-viewer visibility policy to it.
package registry

import (
	"fmt"
	"regexp"
	"strings"

	"campaignboard/models"
)

// CustomKeyPrefix namespaces custom field keys so they can never
// shadow a builtin column.
const CustomKeyPrefix = "custom_"

// Field is one resolvable campaign column.
type Field struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Locked   bool   `json:"locked,omitempty"`
	IsCustom bool   `json:"isCustom,omitempty"`
}

// BuiltinFields is the fixed base schema, in display order. The name
// column is locked: it survives every visibility filter.
var BuiltinFields = []Field{
	{Key: "name", Label: "Campaign Name", Locked: true},
	{Key: "delivery", Label: "Delivery"},
	{Key: "status", Label: "Status"},
	{Key: "actions", Label: "Actions"},
	{Key: "results", Label: "Results"},
	{Key: "costPerResult", Label: "Cost per Result"},
	{Key: "budget", Label: "Budget"},
	{Key: "amountSpent", Label: "Amount Spent"},
	{Key: "impressions", Label: "Impressions"},
	{Key: "reach", Label: "Reach"},
	{Key: "endDate", Label: "End Date"},
	{Key: "active", Label: "Active Status"},
}

var builtinKeys = func() map[string]struct{} {
	keys := make(map[string]struct{}, len(BuiltinFields))
	for _, f := range BuiltinFields {
		keys[f.Key] = struct{}{}
	}
	return keys
}()

// BuiltinKeys returns the keys of the base schema in order.
func BuiltinKeys() []string {
	keys := make([]string, len(BuiltinFields))
	for i, f := range BuiltinFields {
		keys[i] = f.Key
	}
	return keys
}

// IsBuiltinKey reports whether key belongs to the base schema.
func IsBuiltinKey(key string) bool {
	_, ok := builtinKeys[key]
	return ok
}

// CustomKey returns the column key for a custom field name.
func CustomKey(name string) string {
	return CustomKeyPrefix + name
}

// CustomFieldName extracts the field name from a custom column key.
// The second return is false for non-custom keys.
func CustomFieldName(key string) (string, bool) {
	if !strings.HasPrefix(key, CustomKeyPrefix) {
		return "", false
	}
	return strings.TrimPrefix(key, CustomKeyPrefix), true
}

// ResolveSchema merges the builtin fields with the stored custom field
// definitions, customs in store order after the builtins.
func ResolveSchema(custom []models.CustomField) []Field {
	schema := make([]Field, 0, len(BuiltinFields)+len(custom))
	schema = append(schema, BuiltinFields...)
	for _, cf := range custom {
		schema = append(schema, Field{
			Key:      CustomKey(cf.Name),
			Label:    cf.Label,
			IsCustom: true,
		})
	}
	return schema
}

var fieldNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

var validFieldTypes = map[string]struct{}{
	models.FieldTypeText:     {},
	models.FieldTypeNumber:   {},
	models.FieldTypeEmail:    {},
	models.FieldTypeDate:     {},
	models.FieldTypeTextarea: {},
	models.FieldTypeSelect:   {},
	models.FieldTypeCheckbox: {},
}

// Slugify turns a human label into a storage name: lowercased, spaces
// and dashes collapsed to underscores, everything else dropped.
func Slugify(label string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(label)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case r == ' ' || r == '-' || r == '_':
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// ValidateDefinition checks a custom field definition before it is
// stored. existing holds the names already taken.
func ValidateDefinition(cf *models.CustomField, existing []models.CustomField) error {
	if cf.Name == "" {
		return fmt.Errorf("field name is required")
	}
	if !fieldNameRe.MatchString(cf.Name) {
		return fmt.Errorf("field name %q must start with a letter and contain only lowercase letters, digits and underscores", cf.Name)
	}
	if IsBuiltinKey(cf.Name) {
		return fmt.Errorf("field name %q collides with a builtin column", cf.Name)
	}
	for _, other := range existing {
		if other.Name == cf.Name {
			return fmt.Errorf("field name %q is already in use", cf.Name)
		}
	}
	if cf.Label == "" {
		return fmt.Errorf("field label is required")
	}
	if _, ok := validFieldTypes[cf.Type]; !ok {
		return fmt.Errorf("unknown field type %q", cf.Type)
	}
	if cf.Type == models.FieldTypeSelect && len(cf.Options) == 0 {
		return fmt.Errorf("select fields need at least one option")
	}
	if cf.Type != models.FieldTypeSelect && len(cf.Options) > 0 {
		return fmt.Errorf("only select fields take options")
	}
	return nil
}
