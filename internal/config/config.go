package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	TrackingModeTemplates = "templates"
	TrackingModeHTML      = "html"

	maxBatchSize = 50
)

// Config holds the application configuration loaded from files, environment variables and flags.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	APIURL             string        `mapstructure:"wiki_api_url"`
	UserAgent          string        `mapstructure:"wiki_user_agent"`
	Username           string        `mapstructure:"wiki_username"`
	Password           string        `mapstructure:"wiki_password" json:"-"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	BatchSize        int    `mapstructure:"batch_size"`
	TrackingPage     string `mapstructure:"tracking_page"`
	TrackingMode     string `mapstructure:"tracking_mode"`
	NominationPrefix string `mapstructure:"nomination_prefix"`

	NoticeTemplate    string `mapstructure:"notice_template"`
	NoticeExtra       string `mapstructure:"notice_extra"`
	NoticeStripPrefix bool   `mapstructure:"notice_strip_prefix"`
	EditSummary       string `mapstructure:"edit_summary"`
	BotEdit           bool   `mapstructure:"bot_edit"`
	DryRun            bool   `mapstructure:"dry_run"`

	PublishersFile string `mapstructure:"publishers_file"`

	InputFile   string `mapstructure:"input_file"`
	Confirm     bool   `mapstructure:"confirm"`
	ResumeCount int    `mapstructure:"resume_count"`
}

// NotifyOnlyDefaults are the defaults of the notify-only variant, which posts the shorter
// DYKNom notice keyed by the bare article name.
var NotifyOnlyDefaults = map[string]any{
	"notice_template":     "DYKNom",
	"notice_extra":        "passive=yes",
	"notice_strip_prefix": true,
}

// Load reads configuration from environment variables, config files and the given flags.
// Flags are bound by name with dashes mapped to underscores, so --dry-run sets dry_run.
// Each overrides map replaces built-in defaults; env and flags still take precedence.
func Load(flags *pflag.FlagSet, overrides ...map[string]any) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "dyk-notifier")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("wiki_api_url", "https://en.wikipedia.org/w/api.php")
	v.SetDefault("wiki_user_agent", "dyk-notifier/1.0 (https://en.wikipedia.org/wiki/User:APersonBot)")
	v.SetDefault("wiki_username", "")
	v.SetDefault("wiki_password", "")
	v.SetDefault("http_timeout_seconds", 30)
	v.SetDefault("batch_size", maxBatchSize)
	v.SetDefault("tracking_page", "Template talk:Did you know")
	v.SetDefault("tracking_mode", TrackingModeTemplates)
	v.SetDefault("nomination_prefix", "Template:Did you know nominations/")
	v.SetDefault("notice_template", "User:APersonBot/DYKNotice")
	v.SetDefault("notice_extra", "")
	v.SetDefault("notice_strip_prefix", false)
	v.SetDefault("edit_summary", "[[Wikipedia:Bots/Requests for approval/APersonBot 2|Robot]] notification about the DYK nomination of {nomination}.")
	v.SetDefault("bot_edit", true)
	v.SetDefault("dry_run", false)
	v.SetDefault("publishers_file", "")
	v.SetDefault("input_file", "-")
	v.SetDefault("confirm", false)
	v.SetDefault("resume_count", 0)

	for _, o := range overrides {
		for key, val := range o {
			v.SetDefault(key, val)
		}
	}

	v.AutomaticEnv()

	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if bindErr != nil {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			bindErr = fmt.Errorf("bind flag %q: %w", f.Name, err)
		}
	})
	return bindErr
}

func (c *Config) normalize() error {
	c.APIURL = strings.TrimSpace(c.APIURL)
	c.TrackingPage = strings.TrimSpace(c.TrackingPage)
	c.TrackingMode = strings.ToLower(strings.TrimSpace(c.TrackingMode))
	c.NoticeTemplate = strings.TrimSpace(c.NoticeTemplate)
	c.NoticeExtra = strings.TrimSpace(c.NoticeExtra)
	c.Username = strings.TrimSpace(c.Username)

	if c.APIURL == "" {
		return fmt.Errorf("wiki_api_url is required")
	}
	if c.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	c.HTTPTimeout = time.Duration(c.HTTPTimeoutSeconds) * time.Second

	if c.BatchSize <= 0 || c.BatchSize > maxBatchSize {
		return fmt.Errorf("invalid batch_size %d (must be between 1 and %d)", c.BatchSize, maxBatchSize)
	}
	switch c.TrackingMode {
	case TrackingModeTemplates, TrackingModeHTML:
	default:
		return fmt.Errorf("unsupported tracking_mode %q", c.TrackingMode)
	}
	if c.TrackingPage == "" {
		return fmt.Errorf("tracking_page is required")
	}
	if c.NoticeTemplate == "" {
		return fmt.Errorf("notice_template is required")
	}
	if c.ResumeCount < 0 {
		return fmt.Errorf("invalid resume_count (must not be negative)")
	}
	return nil
}

// HasCredentials reports whether a bot login should be attempted.
func (c *Config) HasCredentials() bool {
	return c != nil && c.Username != "" && c.Password != ""
}
