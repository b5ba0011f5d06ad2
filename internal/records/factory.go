// ABOUTME: Record factory that builds randomized Salesforce payloads.
// ABOUTME: Uses gofakeit for people/company data and uniform picks from fixed vocabularies.

package records

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// CompanyNamer supplies company names. An empty string means "no name
// available" and the factory falls back to a faked one.
type CompanyNamer interface {
	CompanyName() string
}

// Factory builds one payload per call. It is not safe for concurrent use.
type Factory struct {
	faker  *gofakeit.Faker
	rng    *rand.Rand
	now    func() time.Time
	preset OpportunityPreset
	namer  CompanyNamer
}

type Option func(*Factory)

// WithSeed makes all random choices reproducible.
func WithSeed(seed uint64) Option {
	return func(f *Factory) {
		f.faker = gofakeit.New(seed)
		f.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

func WithClock(now func() time.Time) Option {
	return func(f *Factory) { f.now = now }
}

func WithPreset(p OpportunityPreset) Option {
	return func(f *Factory) { f.preset = p }
}

func WithCompanyNames(n CompanyNamer) Option {
	return func(f *Factory) { f.namer = n }
}

func NewFactory(opts ...Option) *Factory {
	f := &Factory{
		faker:  gofakeit.New(0),
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:    time.Now,
		preset: FullPreset,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Preset returns the opportunity preset in use.
func (f *Factory) Preset() OpportunityPreset {
	return f.preset
}

func (f *Factory) Account(ownerID string) Account {
	return Account{
		Name:              f.company(),
		Phone:             f.faker.PhoneFormatted(),
		Industry:          f.pick(Industries),
		Website:           f.faker.URL(),
		BillingStreet:     f.faker.Street(),
		BillingCity:       f.faker.City(),
		BillingState:      f.faker.State(),
		BillingPostalCode: f.faker.Zip(),
		BillingCountry:    BillingCountry,
		OwnerID:           ownerID,
	}
}

func (f *Factory) Contact(accountID, ownerID string) Contact {
	return Contact{
		FirstName: f.faker.FirstName(),
		LastName:  f.faker.LastName(),
		Email:     f.faker.Email(),
		Phone:     f.faker.PhoneFormatted(),
		AccountID: accountID,
		OwnerID:   ownerID,
	}
}

func (f *Factory) Lead(ownerID string) Lead {
	return Lead{
		FirstName: f.faker.FirstName(),
		LastName:  f.faker.LastName(),
		Company:   f.company(),
		Email:     f.faker.Email(),
		Phone:     f.faker.PhoneFormatted(),
		Status:    f.pick(LeadStatuses),
		OwnerID:   ownerID,
	}
}

func (f *Factory) Opportunity(accountID, ownerID string) Opportunity {
	today := f.today()
	return Opportunity{
		Name:      fmt.Sprintf("%s - %s", f.company(), today.Format(DateLayout)),
		AccountID: accountID,
		CloseDate: f.dateBetween(today, today.AddDate(0, 0, 30)).Format(DateLayout),
		StageName: f.pick(f.preset.Stages),
		Amount:    f.intBetween(f.preset.MinAmount, f.preset.MaxAmount),
		OwnerID:   ownerID,
	}
}

// Task builds a call or a generic task linked to a contact. Calls are always
// completed in the past; tasks are in the past only when completed.
func (f *Factory) Task(contactID string, subtype Subtype, ownerID string) Task {
	today := f.today()
	past := func() string { return f.dateBetween(today.AddDate(-1, 0, 0), today).Format(DateLayout) }
	future := func() string { return f.dateBetween(today, today.AddDate(0, 0, 30)).Format(DateLayout) }

	t := Task{
		WhoID:       contactID,
		OwnerID:     ownerID,
		TaskSubtype: subtype,
	}
	if subtype == SubtypeCall {
		t.Subject = f.pick(CallSubjects)
		t.Status = TaskStatusCompleted
		t.ActivityDate = past()
		return t
	}

	t.TaskSubtype = SubtypeTask
	t.Subject = f.pick(TaskSubjects)
	t.Status = f.pick(TaskStatuses)
	if t.Status == TaskStatusCompleted {
		t.ActivityDate = past()
	} else {
		t.ActivityDate = future()
	}
	return t
}

func (f *Factory) company() string {
	if f.namer != nil {
		if name := f.namer.CompanyName(); name != "" {
			return name
		}
	}
	return f.faker.Company()
}

func (f *Factory) pick(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[f.rng.IntN(len(values))]
}

func (f *Factory) intBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + f.rng.IntN(hi-lo+1)
}

// dateBetween picks a whole day uniformly in [from, to].
func (f *Factory) dateBetween(from, to time.Time) time.Time {
	days := int(to.Sub(from).Hours() / 24)
	if days <= 0 {
		return from
	}
	return from.AddDate(0, 0, f.rng.IntN(days+1))
}

func (f *Factory) today() time.Time {
	now := f.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
