package api

import (
	"strings"

	"github.com/roadsafetyguard/roadsafetyguard/pkg/admin"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/analytics"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/auth"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/events"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/reports"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/store"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/util"
)

// Services is everything the HTTP handlers call into.
type Services struct {
	Auth      *auth.Service
	Reports   *reports.Service
	Admin     *admin.Service
	Analytics *analytics.Aggregator
}

func NewServices(stores store.Stores, publisher events.Publisher, tokens *auth.Tokens) Services {
	return Services{
		Auth:      auth.NewService(stores.Users, tokens),
		Reports:   reports.NewService(stores, publisher),
		Admin:     admin.NewService(stores, publisher),
		Analytics: analytics.NewAggregator(stores),
	}
}

type Config struct {
	// AllowedOrigins empty allows any origin without credentials.
	AllowedOrigins []string
}

func ConfigFromEnvironment() Config {
	config := Config{}

	for _, origin := range strings.Split(util.GetEnvironmentVariables()["CORS_ORIGIN"], ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			config.AllowedOrigins = append(config.AllowedOrigins, origin)
		}
	}

	return config
}
