package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/blogauth/internal/timex"
)

type JsonConfig struct {
	ServerEndpointAddr string          `json:"server_endpoint_addr"`
	DatabasePath       string          `json:"database_path"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
}

func parseJson(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}
