// ABOUTME: The generate command: one seeding run against the configured org.
// ABOUTME: Resolves preset counts and flag overrides, logs in, and runs the driver.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dusch/testdata-salesforce/internal/config"
	"github.com/dusch/testdata-salesforce/internal/logging"
	"github.com/dusch/testdata-salesforce/internal/records"
	"github.com/dusch/testdata-salesforce/internal/salesforce"
	"github.com/dusch/testdata-salesforce/internal/seed"
)

type generateOptions struct {
	preset             string
	accounts           int
	contactsPerAccount int
	oppsPerAccount     int
	leads              int
	tasksPerContact    int
	seed               uint64
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create test records in Salesforce",
		Long: `Create accounts (each with contacts, calls, tasks and opportunities)
and standalone leads in the org given by the SF_* variables.

Presets:
  full   5 accounts, 2 contacts and 1 opportunity each, 3 tasks per
         contact, 2 leads; six-stage pipeline, amounts 1,000-200,000
  basic  5 accounts, 2 contacts and 1 opportunity each; five-stage
         pipeline, amounts 1,000-100,000

Environment Variables:
  SF_USERNAME, SF_PASSWORD, SF_SECURITY_TOKEN   Login user
  SF_CLIENT_ID, SF_CLIENT_SECRET                Connected app
  SF_LOGIN_URL      Token host (default: https://login.salesforce.com)
  SF_URL            Instance URL override
  SF_API_VERSION    REST API version (default: v59.0)
  TEST_USER_IDS     Comma-separated owner user ids (required)
  SEED_PRESET       full or basic (default: full)
  OPENAI_API_KEY    Enable AI-generated company names
  LOG_LEVEL         debug, info, warn, error (default: info)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.preset, "preset", "", "Preset: full or basic (default: $SEED_PRESET)")
	f.IntVar(&opts.accounts, "accounts", 0, "Number of accounts")
	f.IntVar(&opts.contactsPerAccount, "contacts-per-account", 0, "Contacts created under each account")
	f.IntVar(&opts.oppsPerAccount, "opps-per-account", 0, "Opportunities created under each account")
	f.IntVar(&opts.leads, "leads", 0, "Number of standalone leads")
	f.IntVar(&opts.tasksPerContact, "tasks-per-contact", 0, "Tasks logged against each contact")
	f.Uint64Var(&opts.seed, "seed", 0, "Random seed for reproducible data (0: random)")

	return cmd
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := generate(cmd, cfg, opts, logger); err != nil {
		logger.Error("generation failed", zap.Error(err))
		return err
	}
	return nil
}

func generate(cmd *cobra.Command, cfg *config.Config, opts *generateOptions, logger *zap.Logger) error {
	presetName := cfg.Preset
	if opts.preset != "" {
		presetName = opts.preset
	}
	preset, ok := config.LookupPreset(presetName)
	if !ok {
		return fmt.Errorf("unknown preset %q", presetName)
	}
	counts, err := resolveCounts(cmd, preset.Counts, opts)
	if err != nil {
		return err
	}

	if err := cfg.ValidateForGenerate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := salesforce.Login(ctx, cfg.Credentials(), salesforce.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	names := seed.NewGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
	names.Prepare(ctx, counts.Accounts*(1+counts.OppsPerAccount)+counts.Leads)

	factoryOpts := []records.Option{
		records.WithPreset(preset.Opportunity),
		records.WithCompanyNames(names),
	}
	if opts.seed != 0 {
		factoryOpts = append(factoryOpts, records.WithSeed(opts.seed))
	}

	driver, err := seed.NewDriver(client, records.NewFactory(factoryOpts...), cfg.TestUserIDs(), logger)
	if err != nil {
		return err
	}

	logger.Info("starting generation", zap.String("preset", preset.Name), zap.Int("owners", len(cfg.TestUserIDs())))
	sum, err := driver.Generate(ctx, counts)
	logger.Info("Data generation complete", zap.String("summary", sum.String()))
	return err
}

// resolveCounts starts from the preset and applies any count flag the user set.
func resolveCounts(cmd *cobra.Command, base seed.Counts, opts *generateOptions) (seed.Counts, error) {
	c := base
	overrides := []struct {
		flag  string
		value int
		dst   *int
	}{
		{"accounts", opts.accounts, &c.Accounts},
		{"contacts-per-account", opts.contactsPerAccount, &c.ContactsPerAccount},
		{"opps-per-account", opts.oppsPerAccount, &c.OppsPerAccount},
		{"leads", opts.leads, &c.Leads},
		{"tasks-per-contact", opts.tasksPerContact, &c.TasksPerContact},
	}
	for _, o := range overrides {
		if !cmd.Flags().Changed(o.flag) {
			continue
		}
		if o.value < 0 {
			return seed.Counts{}, fmt.Errorf("--%s must not be negative", o.flag)
		}
		*o.dst = o.value
	}
	return c, nil
}
