package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dsavelev/remindsync/internal/flagx"
	"github.com/dsavelev/remindsync/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can express intervals either as strings like "30s"
// or as integer nanoseconds.
type JsonConfig struct {
	AuthorityAddr string         `json:"authority_addr"`
	WorkerAddr    string         `json:"worker_addr"`
	DatabasePath  string         `json:"database_path"`
	ProbeInterval timex.Duration `json:"probe_interval"`
}

// parseJson overlays cfg with values loaded from the JSON file named by the
// -c/-config flags. Absent file path means no JSON is loaded. Only fields
// present in the file override; zero values are left alone.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.AuthorityAddr != "" {
		cfg.AuthorityAddr = jc.AuthorityAddr
	}
	if jc.WorkerAddr != "" {
		cfg.WorkerAddr = jc.WorkerAddr
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.ProbeInterval.Duration != 0 {
		cfg.ProbeInterval = time.Duration(jc.ProbeInterval.Duration)
	}
}
