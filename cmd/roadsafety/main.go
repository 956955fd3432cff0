package main

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/api"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/client"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/database"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/events"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/seed"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatal().Err(err).Msg("Failed to load .env")
	}

	if os.Getenv("ROADSAFETY_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("ROADSAFETY_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "roadsafety",
		Description: "Road Safety Guard - accident reporting API and its supporting tools",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			events.RegisterCLI(),
			seed.RegisterCLI(),
			database.RegisterCLI(),
			client.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
