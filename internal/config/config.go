// ABOUTME: Environment-driven configuration for sfseed.
// ABOUTME: Loads .env files with godotenv, then resolves keys and defaults through viper.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/dusch/testdata-salesforce/internal/records"
	"github.com/dusch/testdata-salesforce/internal/salesforce"
	"github.com/dusch/testdata-salesforce/internal/seed"
)

var ErrMissingCredential = errors.New("config: missing Salesforce credential")

// Config holds everything the CLI reads from the environment.
type Config struct {
	// Salesforce connection.
	Username      string `mapstructure:"SF_USERNAME"`
	Password      string `mapstructure:"SF_PASSWORD"`
	SecurityToken string `mapstructure:"SF_SECURITY_TOKEN"`
	ClientID      string `mapstructure:"SF_CLIENT_ID"`
	ClientSecret  string `mapstructure:"SF_CLIENT_SECRET"`
	// InstanceURL, when set, overrides the instance returned at login.
	InstanceURL string `mapstructure:"SF_URL"`
	LoginURL    string `mapstructure:"SF_LOGIN_URL"`
	APIVersion  string `mapstructure:"SF_API_VERSION"`

	// TestUserIDsRaw is the comma-separated owner pool.
	TestUserIDsRaw string `mapstructure:"TEST_USER_IDS"`
	Preset         string `mapstructure:"SEED_PRESET"`

	OpenAIAPIKey string `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel  string `mapstructure:"OPENAI_MODEL"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
	Env      string `mapstructure:"APP_ENV"`

	// Mock CRM.
	MockPort   string `mapstructure:"SFSEED_PORT"`
	MockDBPath string `mapstructure:"SFSEED_DB_PATH"`
}

var defaults = map[string]any{
	"SF_USERNAME":       "",
	"SF_PASSWORD":       "",
	"SF_SECURITY_TOKEN": "",
	"SF_CLIENT_ID":      "",
	"SF_CLIENT_SECRET":  "",
	"SF_URL":            "",
	"SF_LOGIN_URL":      salesforce.DefaultLoginURL,
	"SF_API_VERSION":    salesforce.DefaultAPIVersion,
	"TEST_USER_IDS":     "",
	"SEED_PRESET":       PresetFull,
	"OPENAI_API_KEY":    "",
	"OPENAI_MODEL":      "gpt-5-mini",
	"LOG_LEVEL":         "info",
	"APP_ENV":           "",
	"SFSEED_PORT":       "9100",
	"SFSEED_DB_PATH":    "",
}

// Load reads .env files (working directory, its parents, then $HOME) and
// builds Config from the environment. Variables already set in the process
// win over .env values.
func Load() (*Config, error) {
	loadDotEnv()

	v := viper.New()
	v.AutomaticEnv()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if _, ok := LookupPreset(cfg.Preset); !ok {
		return nil, fmt.Errorf("config: unknown SEED_PRESET %q (want %s)", cfg.Preset, strings.Join(PresetNames(), " or "))
	}
	return &cfg, nil
}

func loadDotEnv() {
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		_ = godotenv.Load(filepath.Join(home, ".env"))
	}
}

// TestUserIDs returns the owner pool, skipping blanks.
func (c *Config) TestUserIDs() []string {
	if c == nil || c.TestUserIDsRaw == "" {
		return nil
	}
	parts := strings.Split(c.TestUserIDsRaw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ValidateForGenerate checks the settings a seeding run cannot do without.
func (c *Config) ValidateForGenerate() error {
	missing := []string{}
	for key, val := range map[string]string{
		"SF_USERNAME":      c.Username,
		"SF_PASSWORD":      c.Password,
		"SF_CLIENT_ID":     c.ClientID,
		"SF_CLIENT_SECRET": c.ClientSecret,
	} {
		if val == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: %s", ErrMissingCredential, strings.Join(missing, ", "))
	}
	if len(c.TestUserIDs()) == 0 {
		return fmt.Errorf("config: TEST_USER_IDS must list at least one user id: %w", seed.ErrNoOwners)
	}
	return nil
}

// Credentials maps the config onto the Salesforce client's login input.
func (c *Config) Credentials() salesforce.Credentials {
	return salesforce.Credentials{
		Username:      c.Username,
		Password:      c.Password,
		SecurityToken: c.SecurityToken,
		ClientID:      c.ClientID,
		ClientSecret:  c.ClientSecret,
		LoginURL:      c.LoginURL,
		InstanceURL:   c.InstanceURL,
		APIVersion:    c.APIVersion,
	}
}

// Preset bundles default counts with an opportunity vocabulary.
type Preset struct {
	Name        string
	Counts      seed.Counts
	Opportunity records.OpportunityPreset
}

const (
	PresetFull  = "full"
	PresetBasic = "basic"
)

var presets = map[string]Preset{
	PresetFull: {
		Name:        PresetFull,
		Counts:      seed.Counts{Accounts: 5, ContactsPerAccount: 2, OppsPerAccount: 1, Leads: 2, TasksPerContact: 3},
		Opportunity: records.FullPreset,
	},
	PresetBasic: {
		Name:        PresetBasic,
		Counts:      seed.Counts{Accounts: 5, ContactsPerAccount: 2, OppsPerAccount: 1},
		Opportunity: records.BasicPreset,
	},
}

func LookupPreset(name string) (Preset, bool) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

func PresetNames() []string {
	return []string{PresetFull, PresetBasic}
}
