// ABOUTME: End-to-end seeding run against the mock CRM.
// ABOUTME: Drives the generation driver through the real REST client over HTTP.

package mockcrm_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusch/testdata-salesforce/internal/mockcrm"
	"github.com/dusch/testdata-salesforce/internal/records"
	"github.com/dusch/testdata-salesforce/internal/salesforce"
	"github.com/dusch/testdata-salesforce/internal/seed"
	"github.com/dusch/testdata-salesforce/internal/store"
)

var owners = []string{"005000000000001AAA", "005000000000002AAA", "005000000000003AAA"}

func startMock(t *testing.T) (*salesforce.Client, *store.Store) {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "e2e.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ts := httptest.NewServer(mockcrm.NewServer(st, mockcrm.WithoutAccessLog()).Handler())
	t.Cleanup(ts.Close)

	client, err := salesforce.Login(context.Background(), salesforce.Credentials{
		Username:      "admin@example.com",
		Password:      "pw",
		SecurityToken: "tok",
		ClientID:      "cid",
		ClientSecret:  "secret",
		LoginURL:      ts.URL,
	}, salesforce.WithRetry(2, time.Millisecond))
	require.NoError(t, err)
	return client, st
}

func newFactory() *records.Factory {
	return records.NewFactory(
		records.WithSeed(42),
		records.WithClock(func() time.Time { return time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC) }),
	)
}

func TestEndToEnd_FullPreset(t *testing.T) {
	client, st := startMock(t)

	d, err := seed.NewDriver(client, newFactory(), owners, nil)
	require.NoError(t, err)

	counts := seed.Counts{Accounts: 5, ContactsPerAccount: 2, OppsPerAccount: 1, Leads: 2, TasksPerContact: 3}
	sum, err := d.Generate(context.Background(), counts)
	require.NoError(t, err)

	assert.Empty(t, sum.Failed)
	assert.Empty(t, sum.Skipped)
	assert.Equal(t, 5+10+5+2+30, sum.TotalCreated())

	stored, err := st.CountRecords()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		records.SObjectAccount:     5,
		records.SObjectContact:     10,
		records.SObjectOpportunity: 5,
		records.SObjectLead:        2,
		records.SObjectTask:        30,
	}, stored)

	// Every contact hangs off a stored account and carries its owner.
	contacts, err := st.ListRecords(store.RecordQuery{SObject: records.SObjectContact})
	require.NoError(t, err)
	for _, c := range contacts {
		accountID, _ := c.Fields["AccountId"].(string)
		account, err := st.GetRecord(records.SObjectAccount, accountID)
		require.NoError(t, err, "contact %s", c.ID)
		assert.Equal(t, account.OwnerID, c.OwnerID)
	}

	// Accounts take rotation slots 0-4, so the two leads get slots 5 and 6.
	leads, err := st.ListRecords(store.RecordQuery{SObject: records.SObjectLead})
	require.NoError(t, err)
	leadOwners := map[string]bool{}
	for _, l := range leads {
		leadOwners[l.OwnerID] = true
	}
	assert.Equal(t, map[string]bool{owners[2]: true, owners[0]: true}, leadOwners)

	calls, err := st.ListRecords(store.RecordQuery{SObject: records.SObjectTask, Limit: 100})
	require.NoError(t, err)
	subtypes := map[string]int{}
	for _, task := range calls {
		subtypes[task.Fields["TaskSubtype"].(string)]++
	}
	assert.Equal(t, 20, subtypes["Call"])
	assert.Equal(t, 10, subtypes["Task"])
}

func TestEndToEnd_ReadBackThroughClient(t *testing.T) {
	client, _ := startMock(t)
	ctx := context.Background()

	factory := newFactory()
	res, err := client.Create(ctx, records.SObjectAccount, factory.Account(owners[0]))
	require.NoError(t, err)
	require.True(t, res.Success)

	got, err := client.Get(ctx, records.SObjectAccount, res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.ID, got["Id"])
	assert.Equal(t, owners[0], got["OwnerId"])
	assert.Equal(t, records.BillingCountry, got["BillingCountry"])
}

func TestEndToEnd_RejectedOwnerSkipsChildren(t *testing.T) {
	client, st := startMock(t)

	d, err := seed.NewDriver(client, newFactory(), []string{"bogus-owner"}, nil)
	require.NoError(t, err)

	sum, err := d.Generate(context.Background(), seed.Counts{Accounts: 2, ContactsPerAccount: 1, OppsPerAccount: 1, Leads: 1, TasksPerContact: 2})
	require.NoError(t, err)

	assert.Equal(t, 0, sum.TotalCreated())
	assert.Equal(t, 2, sum.Failed[records.SObjectAccount])
	assert.Equal(t, 1, sum.Failed[records.SObjectLead])
	assert.Equal(t, 2, sum.Skipped[records.SObjectContact])
	assert.Equal(t, 4, sum.Skipped[records.SObjectTask])
	assert.Equal(t, 2, sum.Skipped[records.SObjectOpportunity])

	stored, err := st.CountRecords()
	require.NoError(t, err)
	assert.Empty(t, stored)
}
