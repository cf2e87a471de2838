package factory

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mcoot/auctionhouse/internal/events/natspub"
	"github.com/mcoot/auctionhouse/internal/services/auth"
	"github.com/mcoot/auctionhouse/internal/services/bidding"
	redisstorage "github.com/mcoot/auctionhouse/internal/storage/redis"
)

// DefaultPort is the HTTP listen port when PORT is unset
const DefaultPort = 3001

// ConfigFromEnv builds a Config from environment variables.
// getenv is usually os.Getenv.
func ConfigFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:           DefaultPort,
		CatalogPath:    getenv("CATALOG_PATH"),
		StorageType:    getenv("STORAGE_TYPE"),
		AuthConfig:     auth.DefaultConfig(),
		Policy:         bidding.DefaultPolicy(),
		AllowedOrigins: []string{"*"},
	}

	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid PORT %q", v)
		}
		cfg.Port = port
	}

	if cfg.StorageType == StorageTypeRedis {
		url := getenv("REDIS_URL")
		if url == "" {
			return Config{}, fmt.Errorf("REDIS_URL required when STORAGE_TYPE=redis")
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = url
		cfg.RedisConfig = &redisCfg
	}

	if url := getenv("NATS_URL"); url != "" {
		natsCfg := natspub.DefaultConfig()
		natsCfg.URL = url
		if prefix := getenv("NATS_SUBJECT_PREFIX"); prefix != "" {
			natsCfg.SubjectPrefix = prefix
		}
		cfg.NATSConfig = &natsCfg
	}

	cfg.AuthConfig.AdminPassword = getenv("ADMIN_PASSWORD")
	if v := getenv("SESSION_DURATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid SESSION_DURATION %q", v)
		}
		cfg.AuthConfig.SessionDuration = d
	}

	if v := getenv("ALLOW_SELF_OUTBID"); v != "" {
		allow, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ALLOW_SELF_OUTBID %q", v)
		}
		cfg.Policy.AllowSelfOutbid = allow
	}

	if v := getenv("ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.AllowedOrigins = origins
	}

	return cfg, nil
}
