// ABOUTME: SObject schemas served by the mock CRM.
// ABOUTME: Field lists drive create validation and describe responses.

package mockcrm

import (
	"github.com/dusch/testdata-salesforce/internal/records"
)

// SObjectUser is only ever referenced; the mock stores no users.
const SObjectUser = "User"

const userKeyPrefix = "005"

// SObjectSchema describes one SObject type.
type SObjectSchema struct {
	Name      string
	Label     string
	KeyPrefix string
	// NameFields are joined with a space to form the record's display name.
	NameFields []string
	Fields     []FieldSchema
}

// FieldSchema describes one field.
type FieldSchema struct {
	Name        string
	Type        string // "string", "phone", "email", "url", "date", "currency", "picklist", "reference"
	Label       string
	Required    bool
	ReferenceTo []string
}

func (s *SObjectSchema) field(name string) (FieldSchema, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSchema{}, false
}

func owner() FieldSchema {
	return FieldSchema{Name: "OwnerId", Type: "reference", Label: "Owner ID", ReferenceTo: []string{SObjectUser}}
}

var schemas = map[string]*SObjectSchema{
	records.SObjectAccount: {
		Name:       records.SObjectAccount,
		Label:      "Account",
		KeyPrefix:  "001",
		NameFields: []string{"Name"},
		Fields: []FieldSchema{
			{Name: "Name", Type: "string", Label: "Account Name", Required: true},
			{Name: "Phone", Type: "phone", Label: "Account Phone"},
			{Name: "Industry", Type: "picklist", Label: "Industry"},
			{Name: "Website", Type: "url", Label: "Website"},
			{Name: "BillingStreet", Type: "textarea", Label: "Billing Street"},
			{Name: "BillingCity", Type: "string", Label: "Billing City"},
			{Name: "BillingState", Type: "string", Label: "Billing State/Province"},
			{Name: "BillingPostalCode", Type: "string", Label: "Billing Zip/Postal Code"},
			{Name: "BillingCountry", Type: "string", Label: "Billing Country"},
			owner(),
		},
	},
	records.SObjectContact: {
		Name:       records.SObjectContact,
		Label:      "Contact",
		KeyPrefix:  "003",
		NameFields: []string{"FirstName", "LastName"},
		Fields: []FieldSchema{
			{Name: "FirstName", Type: "string", Label: "First Name"},
			{Name: "LastName", Type: "string", Label: "Last Name", Required: true},
			{Name: "Email", Type: "email", Label: "Email"},
			{Name: "Phone", Type: "phone", Label: "Business Phone"},
			{Name: "AccountId", Type: "reference", Label: "Account ID", ReferenceTo: []string{records.SObjectAccount}},
			owner(),
		},
	},
	records.SObjectLead: {
		Name:       records.SObjectLead,
		Label:      "Lead",
		KeyPrefix:  "00Q",
		NameFields: []string{"FirstName", "LastName"},
		Fields: []FieldSchema{
			{Name: "FirstName", Type: "string", Label: "First Name"},
			{Name: "LastName", Type: "string", Label: "Last Name", Required: true},
			{Name: "Company", Type: "string", Label: "Company", Required: true},
			{Name: "Email", Type: "email", Label: "Email"},
			{Name: "Phone", Type: "phone", Label: "Phone"},
			{Name: "Status", Type: "picklist", Label: "Lead Status", Required: true},
			owner(),
		},
	},
	records.SObjectOpportunity: {
		Name:       records.SObjectOpportunity,
		Label:      "Opportunity",
		KeyPrefix:  "006",
		NameFields: []string{"Name"},
		Fields: []FieldSchema{
			{Name: "Name", Type: "string", Label: "Name", Required: true},
			{Name: "AccountId", Type: "reference", Label: "Account ID", ReferenceTo: []string{records.SObjectAccount}},
			{Name: "CloseDate", Type: "date", Label: "Close Date", Required: true},
			{Name: "StageName", Type: "picklist", Label: "Stage", Required: true},
			{Name: "Amount", Type: "currency", Label: "Amount"},
			owner(),
		},
	},
	records.SObjectTask: {
		Name:       records.SObjectTask,
		Label:      "Task",
		KeyPrefix:  "00T",
		NameFields: []string{"Subject"},
		Fields: []FieldSchema{
			{Name: "Subject", Type: "combobox", Label: "Subject"},
			{Name: "Status", Type: "picklist", Label: "Status", Required: true},
			{Name: "WhoId", Type: "reference", Label: "Name ID", ReferenceTo: []string{records.SObjectContact, records.SObjectLead}},
			{Name: "ActivityDate", Type: "date", Label: "Due Date Only"},
			{Name: "TaskSubtype", Type: "picklist", Label: "Task Subtype"},
			owner(),
		},
	},
}

// LookupSchema returns the schema for an SObject API name.
func LookupSchema(name string) (*SObjectSchema, bool) {
	s, ok := schemas[name]
	return s, ok
}

// SObjectNames lists the supported types in a stable order.
func SObjectNames() []string {
	return []string{
		records.SObjectAccount,
		records.SObjectContact,
		records.SObjectLead,
		records.SObjectOpportunity,
		records.SObjectTask,
	}
}
