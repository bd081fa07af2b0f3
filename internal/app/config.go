package app

import "os"

// Config holds the process-level configuration assembled from CLI flags and
// the environment variables named in §6.3.
type Config struct {
	// Debug enables debug-level logging.
	Debug bool

	// ConfigPath is the catalog file path. Falls back to OZWALD_CONFIG.
	ConfigPath string

	// ProvisionerName selects a named provisioner from the catalog's
	// provisioners[] list. Falls back to OZWALD_PROVISIONER; empty means
	// "the sole configured provisioner".
	ProvisionerName string

	// Realm qualifies container names (§6.4). Falls back to OZWALD_HOST.
	Realm string

	// FootprintDataPath is the usage-record file path (§6.2). Falls back to
	// OZWALD_FOOTPRINT_DATA.
	FootprintDataPath string

	// SystemKey is the control-plane bearer-token shared secret (§4.8).
	// Falls back to OZWALD_SYSTEM_KEY. Its absence is a fatal startup error.
	SystemKey string

	// ListenAddr is the control-plane HTTP listen address.
	ListenAddr string
}

// NewConfig builds a Config from explicit flag values, filling any unset
// field from its matching environment variable.
func NewConfig(debug bool, configPath, provisionerName, realm, footprintDataPath, systemKey, listenAddr string) *Config {
	cfg := &Config{
		Debug:             debug,
		ConfigPath:        configPath,
		ProvisionerName:   provisionerName,
		Realm:             realm,
		FootprintDataPath: footprintDataPath,
		SystemKey:         systemKey,
		ListenAddr:        listenAddr,
	}

	if cfg.ConfigPath == "" {
		cfg.ConfigPath = os.Getenv("OZWALD_CONFIG")
	}
	if cfg.ProvisionerName == "" {
		cfg.ProvisionerName = os.Getenv("OZWALD_PROVISIONER")
	}
	if cfg.Realm == "" {
		cfg.Realm = os.Getenv("OZWALD_HOST")
	}
	if cfg.FootprintDataPath == "" {
		cfg.FootprintDataPath = os.Getenv("OZWALD_FOOTPRINT_DATA")
	}
	if cfg.SystemKey == "" {
		cfg.SystemKey = os.Getenv("OZWALD_SYSTEM_KEY")
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}

	return cfg
}
