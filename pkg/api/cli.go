package api

import (
	"context"
	"fmt"

	"github.com/roadsafetyguard/roadsafetyguard/pkg/auth"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/database"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/events"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/redis_client"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/store"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/store/memorystore"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/store/mongostore"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/usercache"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	env := util.GetEnvironmentVariables()

	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the road safety web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":" + util.EnvironmentOrDefault(env, "PORT", "5000"),
						Usage: "listen target for the web server",
					},
					&cli.StringFlag{
						Name:  "store",
						Value: util.EnvironmentOrDefault(env, "ROADSAFETY_STORE", "mongo"),
						Usage: "storage backend, mongo or memory",
					},
				},
				Action: func(c *cli.Context) error {
					stores, err := openStores(c.String("store"))
					if err != nil {
						return err
					}

					if redis_client.Configured() {
						if err := redis_client.Connect(); err != nil {
							return err
						}
						stores.Users = usercache.New(stores.Users, redis_client.Client)
					}

					tokenConfig, err := auth.ConfigFromEnvironment()
					if err != nil {
						return err
					}
					tokens, err := auth.NewTokens(tokenConfig)
					if err != nil {
						return err
					}

					services := NewServices(stores, events.NewPublisher(), tokens)

					return SetupServer(c.String("listen"), services, ConfigFromEnvironment())
				},
			},
		},
	}
}

func openStores(kind string) (store.Stores, error) {
	switch kind {
	case "mongo":
		if err := database.Connect(); err != nil {
			return store.Stores{}, err
		}
		if err := database.CreateIndexes(context.Background()); err != nil {
			return store.Stores{}, err
		}
		return mongostore.New(), nil
	case "memory":
		log.Warn().Msg("Using the in-memory store, nothing will be persisted")
		return memorystore.New(), nil
	default:
		return store.Stores{}, fmt.Errorf("unknown store %q", kind)
	}
}
