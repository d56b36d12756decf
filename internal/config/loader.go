package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr         string `json:"addr" yaml:"addr" toml:"addr"`
	ModelsDir    string `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	DataDir      string `json:"data_dir" yaml:"data_dir" toml:"data_dir"`
	GeneratedDir string `json:"generated_dir" yaml:"generated_dir" toml:"generated_dir"`
	GPUIndex     int    `json:"gpu_index" yaml:"gpu_index" toml:"gpu_index"`
	// TextAdapter selects the text backend: ollama (remote) or llama (in-process).
	TextAdapter string `json:"text_adapter" yaml:"text_adapter" toml:"text_adapter"`
	// Remote runtime endpoints used when the in-process adapter is not built.
	TextRuntimeURL  string `json:"text_runtime_url" yaml:"text_runtime_url" toml:"text_runtime_url"`
	ImageRuntimeURL string `json:"image_runtime_url" yaml:"image_runtime_url" toml:"image_runtime_url"`
	TextModel       string `json:"text_model" yaml:"text_model" toml:"text_model"`
	ImageModel      string `json:"image_model" yaml:"image_model" toml:"image_model"`
	// Admission tunables.
	MaxQueueDepth  int `json:"max_queue_depth" yaml:"max_queue_depth" toml:"max_queue_depth"`
	MaxWaitSeconds int `json:"max_wait_seconds" yaml:"max_wait_seconds" toml:"max_wait_seconds"`
	// Credit accounting. When true the platform grants free credits instead of charging.
	FreeLaunch *bool `json:"free_launch" yaml:"free_launch" toml:"free_launch"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
