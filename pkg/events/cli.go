package events

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/roadsafetyguard/roadsafetyguard/pkg/alerts"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/consumer"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/elastic_client"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/redis_client"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "Processes accident lifecycle events",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run the events consumers",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "stats-listen",
						Value: ":3333",
						Usage: "listen target for the queue stats server, empty to disable",
					},
				},
				Action: func(c *cli.Context) error {
					if err := redis_client.Connect(); err != nil {
						return err
					}
					if err := elastic_client.Connect(false); err != nil {
						return err
					}

					rules, err := loadRules()
					if err != nil {
						return err
					}

					var index IndexFunc
					if elastic_client.Enabled() {
						index = elastic_client.IndexRequest
					}

					redisConsumer := consumer.RedisConsumer{
						Connection:      redis_client.QueueConnection,
						QueueName:       QueueName,
						NumberConsumers: 5,
						BatchSize:       20,
						Timeout:         2 * time.Second,
						Consumer:        NewBatchConsumer(rules, index),
						StatsListen:     c.String("stats-listen"),
					}
					if err := redisConsumer.Setup(); err != nil {
						return err
					}

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
					defer signal.Stop(signals)

					<-signals // wait for signal
					go func() {
						<-signals // hard exit on second signal (in case shutdown gets stuck)
						os.Exit(1)
					}()

					<-redis_client.QueueConnection.StopAllConsuming() // wait for all Consume() calls to finish
					elastic_client.WaitUntilQueueEmpty()

					return nil
				},
			},
			{
				Name:  "test-event",
				Usage: "publish a test event",
				Action: func(c *cli.Context) error {
					if err := redis_client.Connect(); err != nil {
						return err
					}

					publisher, err := NewQueuePublisher(redis_client.QueueConnection)
					if err != nil {
						return err
					}

					accident := &models.Accident{
						Title:       "Test collision",
						Location:    "Test Road",
						DateTime:    time.Now(),
						Description: "Generated by the test-event command",
						Severity:    models.SeverityCritical,
						Category:    models.CategoryOther,
						Status:      models.StatusReported,
						Casualties:  models.Casualties{Fatalities: 1},
					}

					return publisher.Publish(context.Background(), models.NewEvent(models.EventTypeAccidentCreated, nil, accident))
				},
			},
		},
	}
}

func loadRules() (*alerts.RuleSet, error) {
	path := util.GetEnvironmentVariables()["ROADSAFETY_ALERT_RULES"]
	if path == "" {
		log.Info().Msg("No alert rules configured")
		return nil, nil
	}

	rules, err := alerts.Load(path)
	if err != nil {
		return nil, err
	}

	log.Info().Int("rules", len(rules.Rules)).Str("path", path).Msg("Loaded alert rules")

	return rules, nil
}
