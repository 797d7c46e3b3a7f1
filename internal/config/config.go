// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// TornAPIKey authenticates against the game API.
	TornAPIKey string `koanf:"torn_api_key"`

	// TornAPIBase is the game API base URL.
	TornAPIBase string `koanf:"torn_api_base"`

	// SheetsAPIKey authenticates against the spreadsheet API.
	SheetsAPIKey string `koanf:"sheets_api_key"`

	// SheetsAPIBase is the spreadsheet API base URL.
	SheetsAPIBase string `koanf:"sheets_api_base"`

	// SpreadsheetID identifies the faction workbook.
	SpreadsheetID string `koanf:"spreadsheet_id"`

	// CPRTab, RequirementsTab and DelinquentsTab name the workbook tabs.
	CPRTab          string `koanf:"cpr_tab"`
	RequirementsTab string `koanf:"requirements_tab"`
	DelinquentsTab  string `koanf:"delinquents_tab"`

	// WebhookURL receives channel broadcasts and member pings.
	WebhookURL string `koanf:"webhook_url"`

	// ChannelID labels the broadcast target in notification payloads.
	ChannelID string `koanf:"channel_id"`

	// PollIntervalSeconds spaces eligibility sweeps.
	PollIntervalSeconds int `koanf:"poll_interval_seconds"`

	// APIMaxCallsPerMinute caps game API calls in the sliding window.
	APIMaxCallsPerMinute int `koanf:"api_max_calls_per_minute"`

	// ReportCharLimit truncates the assignment report for the chat layer.
	ReportCharLimit int `koanf:"report_char_limit"`

	// BalanceCacheTTLSeconds and BalanceCacheSize bound the balance cache.
	BalanceCacheTTLSeconds int `koanf:"balance_cache_ttl_seconds"`
	BalanceCacheSize       int `koanf:"balance_cache_size"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":8080",
		TornAPIBase:            "https://api.torn.com/v2",
		SheetsAPIBase:          "https://sheets.googleapis.com",
		CPRTab:                 "CPR",
		RequirementsTab:        "OC Requirements",
		DelinquentsTab:         "Delinquents",
		PollIntervalSeconds:    300,
		APIMaxCallsPerMinute:   80,
		ReportCharLimit:        1900,
		BalanceCacheTTLSeconds: 30,
		BalanceCacheSize:       256,
	}
}
