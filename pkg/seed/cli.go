package seed

import (
	"context"

	"github.com/roadsafetyguard/roadsafetyguard/pkg/database"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/store/mongostore"
	"github.com/urfave/cli/v2"
	"go.mongodb.org/mongo-driver/bson"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Load the demo users and accident reports",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "keep",
				Usage: "keep existing users and accidents instead of clearing them first",
			},
		},
		Action: func(c *cli.Context) error {
			if err := database.Connect(); err != nil {
				return err
			}
			defer database.Disconnect(context.Background())

			data, err := DemoData()
			if err != nil {
				return err
			}

			seeder := NewSeeder(mongostore.New())
			if !c.Bool("keep") {
				seeder.Clear = clearCollections
			}

			summary, err := seeder.Run(c.Context, data)
			if err != nil {
				return err
			}
			summary.Log()

			return nil
		},
	}
}

func clearCollections(ctx context.Context) error {
	for _, name := range []string{database.UsersCollection, database.AccidentsCollection} {
		if _, err := database.GetCollection(name).DeleteMany(ctx, bson.M{}); err != nil {
			return err
		}
	}

	return database.CreateIndexes(ctx)
}
