package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/karadeck/karadeck/internal/bridge"
	"github.com/karadeck/karadeck/internal/engine"
	"github.com/karadeck/karadeck/internal/logger"
	"github.com/karadeck/karadeck/internal/tabs"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	Engine         *engine.Engine
	Bridge         *bridge.Hub
	Tabs           *tabs.Poller
	RedisClient    *redis.Client // nil when the order/cache layer is disabled
	ReloadTrigger  chan struct{} // channel to trigger a manual state refresh
	AllowedOrigins []string      // origins allowed for browser requests
}
