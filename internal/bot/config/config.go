package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"herhaalbot/internal/bot/treatment"
	"herhaalbot/internal/wiki"
)

// Fixed task names, usable in fixed_tasks.
const (
	FixedDeceased        = "deceased"
	FixedMergeDiscussion = "merge-discussion"
	FixedMonthIndex      = "month-index"
	FixedMergeFooter     = "merge-footer"
)

// Task orders.
const (
	OrderConfiguredFirst = "configured-first"
	OrderFixedFirst      = "fixed-first"
)

const (
	DefaultRunCron      = "0 18 * * *"
	DefaultTimeZone     = "Europe/Amsterdam"
	DefaultServerAddr   = ":8080"
	DefaultOutcomeTopic = "page_outcomes"
)

type WikiConfig struct {
	APIURL         string `yaml:"api_url"`
	UserAgent      string `yaml:"user_agent"`
	BearerToken    string `yaml:"-"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type PagesConfig struct {
	Tasks                 string `yaml:"tasks"`
	Summary               string `yaml:"summary"`
	MergeFooter           string `yaml:"merge_footer"`
	DeceasedPrefix        string `yaml:"deceased_prefix"`
	MergeDiscussionPrefix string `yaml:"merge_discussion_prefix"`
}

type TemplatesConfig struct {
	Deceased          string `yaml:"deceased"`
	MergeDiscussion   string `yaml:"merge_discussion"`
	MonthIndex        string `yaml:"month_index"`
	FooterDescription string `yaml:"footer_description"`
}

type SummaryConfig struct {
	CreateSummary  string `yaml:"create_summary"`
	MonthlySummary string `yaml:"monthly_summary"`
	FooterSummary  string `yaml:"footer_summary"`
	Caption        string `yaml:"caption"`
	IntervalHeader string `yaml:"interval_header"`
	PageHeader     string `yaml:"page_header"`
	TemplateHeader string `yaml:"template_header"`
}

type ScheduleConfig struct {
	Cron     string `yaml:"cron"`
	TimeZone string `yaml:"time_zone"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig selects the run history store. An empty Type disables history for
// one-shot runs.
type DatabaseConfig struct {
	Type string `yaml:"type"`
	DSN  string `yaml:"dsn"`
}

// KafkaConfig configures outcome events. No brokers disables them.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type Config struct {
	Wiki       WikiConfig      `yaml:"wiki"`
	Pages      PagesConfig     `yaml:"pages"`
	Templates  TemplatesConfig `yaml:"templates"`
	Summary    SummaryConfig   `yaml:"summary"`
	FixedTasks []string        `yaml:"fixed_tasks"`
	TaskOrder  string          `yaml:"task_order"`
	Schedule   ScheduleConfig  `yaml:"schedule"`
	Server     ServerConfig    `yaml:"server"`
	Database   DatabaseConfig  `yaml:"database"`
	Kafka      KafkaConfig     `yaml:"kafka"`
}

// Default returns the configuration of the nlwiki bot.
func Default() *Config {
	msgs := treatment.DefaultMessages()
	return &Config{
		Wiki: WikiConfig{
			APIURL:         wiki.DefaultAPIURL,
			UserAgent:      wiki.DefaultUserAgent,
			TimeoutSeconds: int(wiki.DefaultTimeout / time.Second),
		},
		Pages: PagesConfig{
			Tasks:                 "Gebruiker:Herhaalbot/Opdrachten",
			Summary:               "Gebruiker:Herhaalbot/Overzicht",
			MergeFooter:           "Wikipedia:Samenvoegen",
			DeceasedPrefix:        "Lijst van personen overleden in",
			MergeDiscussionPrefix: "Wikipedia:Samenvoegen/",
		},
		Templates: TemplatesConfig{
			Deceased:          "Lijst van personen overleden in maand",
			MergeDiscussion:   "Samenvoegen nieuwe maand",
			MonthIndex:        "Maandoverzicht",
			FooterDescription: "''Vaste opdracht: nieuwe maand op [[Wikipedia:Samenvoegen]]''",
		},
		Summary: SummaryConfig{
			CreateSummary:  msgs.CreateSummary,
			MonthlySummary: msgs.MonthlySummary,
			FooterSummary:  msgs.FooterSummary,
			Caption:        "Overzicht van door Herhaalbot aangemaakte of aangepaste pagina's",
			IntervalHeader: "Herhalingsinterval",
			PageHeader:     "Meest recente in de reeks",
			TemplateHeader: "Op basis van sjabloon",
		},
		FixedTasks: []string{FixedDeceased, FixedMergeDiscussion, FixedMonthIndex, FixedMergeFooter},
		TaskOrder:  OrderConfiguredFirst,
		Schedule: ScheduleConfig{
			Cron:     DefaultRunCron,
			TimeZone: DefaultTimeZone,
		},
		Server: ServerConfig{Addr: DefaultServerAddr},
		Kafka:  KafkaConfig{Topic: DefaultOutcomeTopic},
	}
}

// Load reads an optional YAML file over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("WIKI_API_URL"); v != "" {
		cfg.Wiki.APIURL = v
	}
	if v := os.Getenv("WIKI_USER_AGENT"); v != "" {
		cfg.Wiki.UserAgent = v
	}
	if v := os.Getenv("WIKI_BEARER_TOKEN"); v != "" {
		cfg.Wiki.BearerToken = v
	}
	if v := os.Getenv("DB_TYPE"); v != "" {
		cfg.Database.Type = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("OUTCOME_TOPIC"); v != "" {
		cfg.Kafka.Topic = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("RUN_CRON"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("BOT_TIMEZONE"); v != "" {
		cfg.Schedule.TimeZone = v
	}
}

// Validate checks the configuration for values the bot cannot run with.
func (c *Config) Validate() error {
	if c.Pages.Tasks == "" || c.Pages.Summary == "" {
		return fmt.Errorf("pages.tasks and pages.summary are required")
	}
	if c.TaskOrder != OrderConfiguredFirst && c.TaskOrder != OrderFixedFirst {
		return fmt.Errorf("task_order %q: must be %q or %q", c.TaskOrder, OrderConfiguredFirst, OrderFixedFirst)
	}
	seen := make(map[string]bool, len(c.FixedTasks))
	for _, name := range c.FixedTasks {
		switch name {
		case FixedDeceased, FixedMergeDiscussion, FixedMonthIndex, FixedMergeFooter:
		default:
			return fmt.Errorf("fixed_tasks: unknown task %q", name)
		}
		if seen[name] {
			return fmt.Errorf("fixed_tasks: %q listed twice", name)
		}
		seen[name] = true
	}
	if _, err := cron.ParseStandard(c.Schedule.Cron); err != nil {
		return fmt.Errorf("schedule.cron %q: %w", c.Schedule.Cron, err)
	}
	if _, err := time.LoadLocation(c.Schedule.TimeZone); err != nil {
		return fmt.Errorf("schedule.time_zone %q: %w", c.Schedule.TimeZone, err)
	}
	return nil
}

// Location returns the time zone the bot's calendar runs in. Validate has checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Schedule.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Messages returns the edit summaries for the treatments.
func (c *Config) Messages() treatment.Messages {
	return treatment.Messages{
		CreateSummary:  c.Summary.CreateSummary,
		MonthlySummary: c.Summary.MonthlySummary,
		FooterSummary:  c.Summary.FooterSummary,
	}
}

// WikiOptions returns the client options for the configured wiki.
func (c *Config) WikiOptions() wiki.Options {
	return wiki.Options{
		APIURL:      c.Wiki.APIURL,
		UserAgent:   c.Wiki.UserAgent,
		BearerToken: c.Wiki.BearerToken,
		Timeout:     time.Duration(c.Wiki.TimeoutSeconds) * time.Second,
	}
}
