// ABOUTME: The mock command group: a local Salesforce stand-in for dry runs.
// ABOUTME: serve, reset, records, and logs over the mock CRM's SQLite database.

package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dusch/testdata-salesforce/internal/config"
	"github.com/dusch/testdata-salesforce/internal/logging"
	"github.com/dusch/testdata-salesforce/internal/mockcrm"
	"github.com/dusch/testdata-salesforce/internal/store"
)

type mockOptions struct {
	port         string
	dbPath       string
	instanceURL  string
	owner        string
	errorsOnly   bool
	recordsLimit int
	logsLimit    int
}

func newMockCmd() *cobra.Command {
	opts := &mockOptions{}

	mockCmd := &cobra.Command{
		Use:   "mock",
		Short: "Run and inspect the local mock Salesforce",
		Long: `A local stand-in for the Salesforce REST API, backed by SQLite.

Point sfseed at it for a dry run:
  sfseed mock serve &
  SF_LOGIN_URL=http://localhost:9100 SF_USERNAME=me SF_PASSWORD=x \
  SF_CLIENT_ID=x SF_CLIENT_SECRET=x TEST_USER_IDS=005000000000001AAA \
  sfseed generate

The token endpoint accepts any non-empty username and password. Owner ids
must look like User ids (prefix 005, 15 or 18 characters).`,
	}
	mockCmd.PersistentFlags().StringVarP(&opts.dbPath, "db", "d", "", "Database path (default: $SFSEED_DB_PATH or the user data dir)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the mock server",
		Long: `Start the mock Salesforce server.

Endpoints:
  POST /services/oauth2/token                          Username-password login
  POST /services/oauth2/revoke                         Revoke a session
  GET  /services/data/{version}/sobjects               Supported SObjects
  POST /services/data/{version}/sobjects/{sobject}/    Create a record
  GET  /services/data/{version}/sobjects/{sobject}     Recent records
  GET  /services/data/{version}/sobjects/{sobject}/{id}
  GET  /services/data/{version}/sobjects/{sobject}/describe
  GET  /healthz, /metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMockServe(opts)
		},
	}
	serveCmd.Flags().StringVarP(&opts.port, "port", "p", "", "Port to listen on (default: $SFSEED_PORT or 9100)")
	serveCmd.Flags().StringVar(&opts.instanceURL, "instance-url", "", "instance_url returned at login (default: derived from the request)")

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the mock database and create an empty one",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMockReset(opts)
		},
	}

	recordsCmd := &cobra.Command{
		Use:   "records <sobject>",
		Short: "List records stored by the mock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMockRecords(cmd, opts, args[0])
		},
	}
	recordsCmd.Flags().IntVarP(&opts.recordsLimit, "limit", "n", 50, "Maximum records to show")
	recordsCmd.Flags().StringVar(&opts.owner, "owner", "", "Only records owned by this user id")

	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Show request statistics and recent requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMockLogs(cmd, opts)
		},
	}
	logsCmd.Flags().IntVarP(&opts.logsLimit, "limit", "n", 20, "Recent requests to show")
	logsCmd.Flags().BoolVar(&opts.errorsOnly, "errors", false, "Only failed requests")

	mockCmd.AddCommand(serveCmd, resetCmd, recordsCmd, logsCmd)
	return mockCmd
}

// resolveDB applies the flag, then SFSEED_DB_PATH, then the default location.
func resolveDB(opts *mockOptions, cfg *config.Config) (string, error) {
	path := opts.dbPath
	if path == "" {
		path = cfg.MockDBPath
	}
	if path == "" {
		path = getDefaultDBPath()
	}
	return validateAndCleanDBPath(path)
}

func openStore(opts *mockOptions) (*store.Store, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	dbPath, err := resolveDB(opts, cfg)
	if err != nil {
		return nil, nil, err
	}
	s, err := store.New(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	return s, cfg, nil
}

func runMockServe(opts *mockOptions) error {
	s, cfg, err := openStore(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		return err
	}
	defer logger.Sync()

	port := opts.port
	if port == "" {
		port = cfg.MockPort
	}

	srvOpts := []mockcrm.Option{mockcrm.WithLogger(logger)}
	if opts.instanceURL != "" {
		srvOpts = append(srvOpts, mockcrm.WithInstanceURL(opts.instanceURL))
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mockcrm.NewServer(s, srvOpts...).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Mock Salesforce listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func runMockReset(opts *mockOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	dbPath, err := resolveDB(opts, cfg)
	if err != nil {
		return err
	}

	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove existing database: %w", err)
		}
	}

	s, err := store.New(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	log.Printf("Reset mock database at %s", dbPath)
	return nil
}

func runMockRecords(cmd *cobra.Command, opts *mockOptions, sobject string) error {
	if _, ok := mockcrm.LookupSchema(sobject); !ok {
		return fmt.Errorf("unknown sobject %q (want one of %s)", sobject, strings.Join(mockcrm.SObjectNames(), ", "))
	}

	s, _, err := openStore(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	recs, err := s.ListRecords(store.RecordQuery{SObject: sobject, OwnerID: opts.owner, Limit: opts.recordsLimit})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tOWNER\tCREATED")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Name, r.OwnerID, r.CreatedAt.Format(time.DateTime))
	}
	return tw.Flush()
}

func runMockLogs(cmd *cobra.Command, opts *mockOptions) error {
	s, _, err := openStore(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	stats, err := s.GetRequestLogStats()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "requests: %d  errors: %d  avg: %dms  endpoints: %d\n",
		stats.TotalRequests, stats.ErrorRequests, stats.AvgDurationMs, stats.UniqueEndpoints)

	sobjects := make([]string, 0, len(stats.CreatesOK)+len(stats.CreatesFailed))
	seen := map[string]bool{}
	for _, m := range []map[string]int{stats.CreatesOK, stats.CreatesFailed} {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				sobjects = append(sobjects, k)
			}
		}
	}
	sort.Strings(sobjects)
	for _, so := range sobjects {
		fmt.Fprintf(out, "  %-12s created %d, rejected %d\n", so, stats.CreatesOK[so], stats.CreatesFailed[so])
	}

	logs, err := s.GetRequestLogs(&store.RequestLogQuery{Limit: opts.logsLimit, ErrorsOnly: opts.errorsOnly})
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nTIME\tMETHOD\tPATH\tSTATUS\tERROR")
	for _, l := range logs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", l.Timestamp.Format(time.DateTime), l.Method, l.Path, l.StatusCode, l.Error)
	}
	return tw.Flush()
}
