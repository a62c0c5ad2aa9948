// internal/config/config.go
package config

type Config struct {
	Rosterwatch RosterwatchConfig `yaml:"rosterwatch"`
}

type RosterwatchConfig struct {
	Provider      ProviderConfig    `yaml:"provider"`
	Groups        []string          `yaml:"groups"`
	Poll          PollConfig        `yaml:"poll"`
	Render        RenderConfig      `yaml:"render"`
	Abbreviations map[string]string `yaml:"abbreviations"`
	Mirror        MirrorConfig      `yaml:"mirror"`
	API           APIConfig         `yaml:"api"`
	Log           LogConfig         `yaml:"log"`
}

// ---- PROVIDER ----

type ProviderConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKey    string `yaml:"api_key"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- POLL ----

// PollConfig holds the poller cadence.
// IntervalMs is the global minimum interval between two fetch rounds (the gate).
// TickMs is how often the poller wakes up to try the gate.
type PollConfig struct {
	IntervalMs  int `yaml:"interval_ms"`
	TickMs      int `yaml:"tick_ms"`
	Concurrency int `yaml:"concurrency"`
}

// ---- RENDER ----

type RenderConfig struct {
	IntervalMs int `yaml:"interval_ms"`

	// Countdown rows with less remaining time than this are highlighted.
	// Absent means the default; 0 turns highlighting off.
	HighlightThresholdSeconds *int `yaml:"incapacitation_highlight_threshold_seconds"`
}

// ---- MIRROR (register block, optional) ----

type MirrorConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Protocol    string `yaml:"protocol"` // modbus | ingest
	Endpoint    string `yaml:"endpoint"`
	UnitID      uint8  `yaml:"unit_id"`
	BaseAddress uint16 `yaml:"base_address"`
	MaxSlots    int    `yaml:"max_slots"`
	TimeoutMs   int    `yaml:"timeout_ms"`
}

// ---- API ----

type APIConfig struct {
	Listen string `yaml:"listen"` // empty disables the ops server
}

// ---- LOG ----

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}
