// ABOUTME: Create-time validation for mock CRM records.
// ABOUTME: Produces the same error codes Salesforce returns for bad saves.

package mockcrm

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	apierrors "github.com/dusch/testdata-salesforce/internal/errors"
	"github.com/dusch/testdata-salesforce/internal/records"
)

// RecordChecker resolves reference field values.
type RecordChecker interface {
	RecordExists(sobject, id string) (bool, error)
}

// validate checks fields against schema. Unknown fields and unparseable
// values are reported alone; otherwise every missing required field and bad
// reference is reported together.
func validate(schema *SObjectSchema, fields map[string]any, refs RecordChecker) ([]apierrors.APIError, error) {
	var unknown []string
	for name := range fields {
		if name == "attributes" {
			continue
		}
		if _, ok := schema.field(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return []apierrors.APIError{{
			ErrorCode: apierrors.ErrInvalidField,
			Message:   fmt.Sprintf("No such column '%s' on sobject of type %s", unknown[0], schema.Name),
		}}, nil
	}

	for _, f := range schema.Fields {
		v, ok := fields[f.Name]
		if !ok || v == nil {
			continue
		}
		if msg := checkType(f, v); msg != "" {
			return []apierrors.APIError{{ErrorCode: apierrors.ErrJSONParser, Message: msg}}, nil
		}
	}

	var errs []apierrors.APIError
	var missing []string
	for _, f := range schema.Fields {
		if f.Required && isBlank(fields[f.Name]) {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		errs = append(errs, apierrors.APIError{
			ErrorCode: apierrors.ErrRequiredFieldMissing,
			Message:   fmt.Sprintf("Required fields are missing: [%s]", strings.Join(missing, ", ")),
			Fields:    missing,
		})
	}

	for _, f := range schema.Fields {
		if f.Type != "reference" || isBlank(fields[f.Name]) {
			continue
		}
		id, _ := fields[f.Name].(string)
		ok, err := resolves(f, id, refs)
		if err != nil {
			return nil, err
		}
		if !ok {
			errs = append(errs, apierrors.APIError{
				ErrorCode: apierrors.ErrInvalidCrossRefKey,
				Message:   fmt.Sprintf("%s: id value of incorrect type: %s", f.Label, id),
				Fields:    []string{f.Name},
			})
		}
	}
	return errs, nil
}

func checkType(f FieldSchema, v any) string {
	switch f.Type {
	case "date":
		s, ok := v.(string)
		if !ok {
			return fmt.Sprintf("Cannot deserialize instance of date from %s value for field %s", jsonKind(v), f.Name)
		}
		if s == "" {
			return ""
		}
		if _, err := time.Parse(records.DateLayout, s); err != nil {
			return fmt.Sprintf("Cannot deserialize instance of date from VALUE_STRING value %s or request may be missing a required field", s)
		}
	case "currency":
		if _, ok := v.(float64); !ok {
			return fmt.Sprintf("Cannot deserialize instance of currency from %s value for field %s", jsonKind(v), f.Name)
		}
	case "reference":
		if _, ok := v.(string); !ok {
			return fmt.Sprintf("Cannot deserialize instance of reference from %s value for field %s", jsonKind(v), f.Name)
		}
	default:
		if _, ok := v.(string); !ok {
			return fmt.Sprintf("Cannot deserialize instance of %s from %s value for field %s", f.Type, jsonKind(v), f.Name)
		}
	}
	return ""
}

// resolves reports whether id names a record of one of f's target types. Ids
// of types the mock does not store (users) are checked by shape only.
func resolves(f FieldSchema, id string, refs RecordChecker) (bool, error) {
	if len(id) != 15 && len(id) != 18 {
		return false, nil
	}
	for _, target := range f.ReferenceTo {
		if target == SObjectUser {
			if strings.HasPrefix(id, userKeyPrefix) {
				return true, nil
			}
			continue
		}
		schema, ok := LookupSchema(target)
		if !ok || !strings.HasPrefix(id, schema.KeyPrefix) {
			continue
		}
		return refs.RecordExists(target, id)
	}
	return false, nil
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func jsonKind(v any) string {
	switch v.(type) {
	case string:
		return "VALUE_STRING"
	case float64:
		return "VALUE_NUMBER"
	case bool:
		return "VALUE_BOOLEAN"
	case []any:
		return "START_ARRAY"
	case map[string]any:
		return "START_OBJECT"
	}
	return "VALUE_NULL"
}

// newID returns an 18-character id: the type's key prefix plus 15 characters
// taken from a random UUID.
func newID(keyPrefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return keyPrefix + strings.ToUpper(raw[:15])
}

// displayName joins the schema's name fields.
func displayName(schema *SObjectSchema, fields map[string]any) string {
	parts := make([]string, 0, len(schema.NameFields))
	for _, name := range schema.NameFields {
		if s, ok := fields[name].(string); ok && s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
