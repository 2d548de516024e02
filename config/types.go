package config

// Log controls the structured logger.
type Log struct {
	Level      string `toml:"Level"`
	Format     string `toml:"Format"`
	File       string `toml:"File"`
	MaxSizeMB  int    `toml:"MaxSizeMB"`
	MaxBackups int    `toml:"MaxBackups"`
	MaxAgeDays int    `toml:"MaxAgeDays"`
}

// Metrics controls the prometheus endpoint. An empty listen address
// disables it.
type Metrics struct {
	ListenAddress string `toml:"ListenAddress"`
}

// Telemetry controls OpenTelemetry trace and metric export.
type Telemetry struct {
	Endpoint    string  `toml:"Endpoint"`
	Insecure    bool    `toml:"Insecure"`
	Traces      bool    `toml:"Traces"`
	Metrics     bool    `toml:"Metrics"`
	Headers     string  `toml:"Headers"`
	SampleRatio float64 `toml:"SampleRatio"`
}

// Receipts controls the sqlite receipt index. An empty path disables it.
type Receipts struct {
	Path string `toml:"Path"`
}
