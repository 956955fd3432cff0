package database

import (
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "indexes",
		Usage: "Create the accidents and users collection indexes",
		Action: func(c *cli.Context) error {
			if err := Connect(); err != nil {
				return err
			}
			defer Disconnect(c.Context)

			if err := CreateIndexes(c.Context); err != nil {
				return err
			}

			log.Info().Msg("Indexes up to date")

			return nil
		},
	}
}
