package engine

import (
	"time"

	"panelxd/internal/gpu"
	"panelxd/pkg/types"
)

// Defaults applied when corresponding EngineConfig fields are unset.
const (
	defaultMaxQueueDepth = 32
	defaultMaxWait       = 30 * time.Second
)

// Default per-generation credit costs, charged when a user id is present and
// free-launch mode is off.
const (
	costChat  = 1
	costStory = 2
	costImage = 5
)

// Charger debits credits for an admitted generation and returns them when the
// generation then fails. Implemented by the credits store; nil disables
// charging.
type Charger interface {
	Charge(uid string, amount int64, reason string) error
	Refund(uid string, amount int64, reason string) error
}

// EngineConfig encapsulates all tunables for Engine construction.
type EngineConfig struct {
	Device        *gpu.Device
	Models        []types.ModelFile
	TextModel     string
	ImageModel    string
	GeneratedDir  string
	MaxQueueDepth int
	MaxWait       time.Duration
	Text          TextAdapter
	Image         ImageAdapter
	Charger       Charger
	FreeLaunch    bool
	Publisher     EventPublisher
}

func (cfg *EngineConfig) applyDefaults() {
	if cfg.MaxQueueDepth <= 0 {
		cfg.MaxQueueDepth = defaultMaxQueueDepth
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = defaultMaxWait
	}
	if cfg.Publisher == nil {
		cfg.Publisher = noopPublisher{}
	}
}
