package events

import (
	"github.com/taskdeck/taskdeck/internal/common/config"
	"github.com/taskdeck/taskdeck/internal/common/logger"
)

// NewEventBus returns the configured event bus: NATS when a URL is set,
// otherwise the in-memory bus.
func NewEventBus(cfg config.NATSConfig, log *logger.Logger) (EventBus, error) {
	if cfg.URL == "" {
		log.Info("No NATS URL configured, using in-memory event bus")
		return NewMemoryEventBus(log), nil
	}
	return NewNATSEventBus(cfg, log)
}
