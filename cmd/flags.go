package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"concertcloud-cli/config"
	"concertcloud-cli/filter"
	"concertcloud-cli/logger"
	"concertcloud-cli/model"
)

// globalFlags are shared by every command. Flags beat the environment, which
// beats the config file.
type globalFlags struct {
	configFile string
	envFile    string
	apiURL     string
	timeout    time.Duration
	logFile    string
	logLevel   string
	eventID    int
}

func (g *globalFlags) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&g.configFile, "config", "", "path to config.yaml (default: user config dir)")
	fs.StringVar(&g.envFile, "env-file", "", "dotenv file to load (default: .env)")
	fs.StringVar(&g.apiURL, "api-url", "", "ConcertCloud API base URL (default: "+config.DefaultAPIURL+")")
	fs.DurationVar(&g.timeout, "timeout", 0, "HTTP timeout, 0 for none")
	fs.StringVar(&g.logFile, "log-file", "", "write JSON log records to this file")
	fs.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.IntVarP(&g.eventID, "event", "e", 1, "event id")
}

// resolve loads the config, applies flag overrides and starts logging.
func (g *globalFlags) resolve(fs *pflag.FlagSet) (config.Config, error) {
	cfg, err := config.Load(config.Options{File: g.configFile, EnvFile: g.envFile})
	if err != nil {
		return config.Config{}, err
	}
	if fs.Changed("api-url") {
		cfg.APIURL = g.apiURL
	}
	if fs.Changed("timeout") {
		cfg.Timeout = g.timeout
	}
	if fs.Changed("log-file") {
		cfg.LogFile = g.logFile
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = g.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if err := logger.Init(cfg.LogFile, cfg.LogLevel); err != nil {
		return config.Config{}, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}

// filters returns the starting filter state: config defaults, then --event.
func (g *globalFlags) filters(fs *pflag.FlagSet, cfg config.Config) filter.State {
	state := cfg.Filters()
	if fs.Changed("event") {
		state = state.WithEventID(g.eventID)
	}
	return state
}

// filterFlags mirror the filter bar for non-interactive commands.
type filterFlags struct {
	quantity     int
	maxPrice     string
	verifiedOnly bool
	together     bool
	sort         string
	section      string
}

func (f *filterFlags) AddFlags(fs *pflag.FlagSet) {
	fs.IntVarP(&f.quantity, "qty", "q", filter.MinQuantity, fmt.Sprintf("tickets wanted (%d-%d)", filter.MinQuantity, filter.MaxQuantity))
	fs.StringVar(&f.maxPrice, "max-price", "", "maximum price per ticket")
	fs.BoolVar(&f.verifiedOnly, "verified-only", false, "only verified listings")
	fs.BoolVar(&f.together, "together", false, "only seats next to each other")
	fs.StringVar(&f.sort, "sort", string(filter.SortBest), "best or cheapest")
	fs.StringVar(&f.section, "section", "", "section id")
}

// apply layers the flags the user actually set over state.
func (f *filterFlags) apply(fs *pflag.FlagSet, state filter.State) filter.State {
	if fs.Changed("qty") {
		state = state.WithQuantity(f.quantity)
	}
	if fs.Changed("max-price") {
		state.MaxPrice = filter.ParseMaxPrice(f.maxPrice)
	}
	if fs.Changed("verified-only") {
		state.VerifiedOnly = f.verifiedOnly
	}
	if fs.Changed("together") {
		state.Together = f.together
	}
	if fs.Changed("sort") {
		state.Sort = filter.ParseSort(f.sort)
	}
	if fs.Changed("section") && f.section != "" {
		id := model.SectionID(f.section)
		state.SectionID = &id
	}
	return state
}
