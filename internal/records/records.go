// ABOUTME: Salesforce SObject payloads produced by the record factory.
// ABOUTME: Field names match the Salesforce REST API so payloads marshal directly.

package records

// SObject API names.
const (
	SObjectAccount     = "Account"
	SObjectContact     = "Contact"
	SObjectLead        = "Lead"
	SObjectOpportunity = "Opportunity"
	SObjectTask        = "Task"
)

// DateLayout is the Salesforce date format.
const DateLayout = "2006-01-02"

// Payload is a record ready to be submitted to the CRM.
type Payload interface {
	SObject() string
}

type Account struct {
	Name              string `json:"Name"`
	Phone             string `json:"Phone"`
	Industry          string `json:"Industry"`
	Website           string `json:"Website"`
	BillingStreet     string `json:"BillingStreet"`
	BillingCity       string `json:"BillingCity"`
	BillingState      string `json:"BillingState"`
	BillingPostalCode string `json:"BillingPostalCode"`
	BillingCountry    string `json:"BillingCountry"`
	OwnerID           string `json:"OwnerId"`
}

func (Account) SObject() string { return SObjectAccount }

type Contact struct {
	FirstName string `json:"FirstName"`
	LastName  string `json:"LastName"`
	Email     string `json:"Email"`
	Phone     string `json:"Phone"`
	AccountID string `json:"AccountId"`
	OwnerID   string `json:"OwnerId"`
}

func (Contact) SObject() string { return SObjectContact }

type Lead struct {
	FirstName string `json:"FirstName"`
	LastName  string `json:"LastName"`
	Company   string `json:"Company"`
	Email     string `json:"Email"`
	Phone     string `json:"Phone"`
	Status    string `json:"Status"`
	OwnerID   string `json:"OwnerId"`
}

func (Lead) SObject() string { return SObjectLead }

type Opportunity struct {
	Name      string `json:"Name"`
	AccountID string `json:"AccountId"`
	CloseDate string `json:"CloseDate"`
	StageName string `json:"StageName"`
	Amount    int    `json:"Amount"`
	OwnerID   string `json:"OwnerId"`
}

func (Opportunity) SObject() string { return SObjectOpportunity }

// Task covers both logged calls and generic tasks; TaskSubtype tells them apart.
type Task struct {
	Subject      string  `json:"Subject"`
	Status       string  `json:"Status"`
	WhoID        string  `json:"WhoId"`
	OwnerID      string  `json:"OwnerId"`
	ActivityDate string  `json:"ActivityDate"`
	TaskSubtype  Subtype `json:"TaskSubtype"`
}

func (Task) SObject() string { return SObjectTask }

// Subtype discriminates calls from generic tasks.
type Subtype string

const (
	SubtypeCall Subtype = "Call"
	SubtypeTask Subtype = "Task"
)
