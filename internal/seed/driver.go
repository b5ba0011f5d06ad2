// ABOUTME: Generation driver that seeds a Salesforce org with linked test records.
// ABOUTME: Creates accounts with contacts, tasks and opportunities, then standalone leads.

package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dusch/testdata-salesforce/internal/records"
	"github.com/dusch/testdata-salesforce/internal/salesforce"
)

var ErrNoOwners = errors.New("seed: at least one owner user id is required")

// Creator submits one record to the CRM.
type Creator interface {
	Create(ctx context.Context, sobject string, payload any) (salesforce.SaveResult, error)
}

// Counts controls how many records one run creates.
type Counts struct {
	Accounts           int
	ContactsPerAccount int
	OppsPerAccount     int
	Leads              int
	TasksPerContact    int
}

type Driver struct {
	creator Creator
	factory *records.Factory
	owners  []string
	logger  *zap.Logger
}

func NewDriver(creator Creator, factory *records.Factory, owners []string, logger *zap.Logger) (*Driver, error) {
	if len(owners) == 0 {
		return nil, ErrNoOwners
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{
		creator: creator,
		factory: factory,
		owners:  append([]string(nil), owners...),
		logger:  logger,
	}, nil
}

// Generate runs one seeding pass. Children are only created under parents
// whose save succeeded. Accounts and leads share one owner rotation; every
// child inherits its account's owner. A transport error aborts the run and is
// returned together with the partial summary.
func (d *Driver) Generate(ctx context.Context, c Counts) (Summary, error) {
	sum := newSummary()
	cursor := 0
	nextOwner := func() string {
		owner := d.owners[cursor%len(d.owners)]
		cursor++
		return owner
	}

	d.logger.Info("generating test data",
		zap.Int("accounts", c.Accounts),
		zap.Int("contacts_per_account", c.ContactsPerAccount),
		zap.Int("opps_per_account", c.OppsPerAccount),
		zap.Int("leads", c.Leads),
		zap.Int("tasks_per_contact", c.TasksPerContact),
	)

	for i := 0; i < c.Accounts; i++ {
		owner := nextOwner()
		account, err := d.submit(ctx, &sum, records.SObjectAccount, d.factory.Account(owner))
		if err != nil {
			sum.OwnerCursor = cursor
			return sum, err
		}
		if !account.Success {
			sum.skip(records.SObjectContact, c.ContactsPerAccount)
			sum.skip(records.SObjectTask, c.ContactsPerAccount*c.TasksPerContact)
			sum.skip(records.SObjectOpportunity, c.OppsPerAccount)
			continue
		}

		if err := d.contacts(ctx, &sum, c, account.ID, owner); err != nil {
			sum.OwnerCursor = cursor
			return sum, err
		}

		for j := 0; j < c.OppsPerAccount; j++ {
			if _, err := d.submit(ctx, &sum, records.SObjectOpportunity, d.factory.Opportunity(account.ID, owner)); err != nil {
				sum.OwnerCursor = cursor
				return sum, err
			}
		}
	}

	for i := 0; i < c.Leads; i++ {
		if _, err := d.submit(ctx, &sum, records.SObjectLead, d.factory.Lead(nextOwner())); err != nil {
			sum.OwnerCursor = cursor
			return sum, err
		}
	}

	sum.OwnerCursor = cursor
	return sum, nil
}

func (d *Driver) contacts(ctx context.Context, sum *Summary, c Counts, accountID, owner string) error {
	for j := 0; j < c.ContactsPerAccount; j++ {
		contact, err := d.submit(ctx, sum, records.SObjectContact, d.factory.Contact(accountID, owner))
		if err != nil {
			return err
		}
		if !contact.Success {
			sum.skip(records.SObjectTask, c.TasksPerContact)
			continue
		}

		for k := 0; k < c.TasksPerContact; k++ {
			subtype := records.SubtypeCall
			if k%2 == 1 {
				subtype = records.SubtypeTask
			}
			if _, err := d.submit(ctx, sum, string(subtype), d.factory.Task(contact.ID, subtype, owner)); err != nil {
				return err
			}
		}
	}
	return nil
}

// submit creates one record. label is what progress lines call the record;
// it differs from the SObject only for calls and tasks.
func (d *Driver) submit(ctx context.Context, sum *Summary, label string, payload records.Payload) (salesforce.SaveResult, error) {
	sobject := payload.SObject()
	res, err := d.creator.Create(ctx, sobject, payload)
	if err != nil {
		return res, fmt.Errorf("create %s: %w", label, err)
	}

	if !res.Success {
		sum.fail(sobject)
		d.logger.Warn("create rejected",
			zap.String("sobject", label),
			zap.String("errors", res.ErrorSummary()),
		)
		return res, nil
	}

	sum.create(sobject)
	d.logger.Info(fmt.Sprintf("Created %s: %s", label, res.ID),
		zap.String("sobject", sobject),
		zap.String("id", res.ID),
	)
	return res, nil
}
