package client

import (
	"fmt"

	"github.com/kr/pretty"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "url",
			Value: "http://localhost:5000",
			Usage: "base url of a running API",
		},
		&cli.StringFlag{
			Name:    "token",
			Usage:   "bearer token to call the API with",
			EnvVars: []string{"ROADSAFETY_TOKEN"},
		},
		&cli.StringFlag{
			Name:  "start-date",
			Usage: "only include reports on or after this date",
		},
		&cli.StringFlag{
			Name:  "end-date",
			Usage: "only include reports on or before this date",
		},
	}

	return &cli.Command{
		Name:  "client",
		Usage: "Query a running road safety API",
		Subcommands: []*cli.Command{
			{
				Name:  "dashboard",
				Usage: "print the analytics dashboard",
				Flags: flags,
				Action: func(c *cli.Context) error {
					apiClient, window, err := fromFlags(c)
					if err != nil {
						return err
					}

					dashboard, err := apiClient.AnalyticsDashboard(c.Context, window)
					if err != nil {
						return err
					}

					fmt.Println(pretty.Sprint(dashboard))
					return nil
				},
			},
			{
				Name:  "trends",
				Usage: "print accident trends",
				Flags: append(flags, &cli.StringFlag{
					Name:  "period",
					Value: string(models.PeriodMonth),
					Usage: "day, week or month",
				}),
				Action: func(c *cli.Context) error {
					apiClient, window, err := fromFlags(c)
					if err != nil {
						return err
					}

					trends, err := apiClient.Trends(c.Context, models.ParsePeriod(c.String("period")), window)
					if err != nil {
						return err
					}

					fmt.Println(pretty.Sprint(trends))
					return nil
				},
			},
			{
				Name:  "heatmap",
				Usage: "print heatmap points",
				Flags: flags,
				Action: func(c *cli.Context) error {
					apiClient, window, err := fromFlags(c)
					if err != nil {
						return err
					}

					points, err := apiClient.Heatmap(c.Context, window)
					if err != nil {
						return err
					}

					fmt.Println(pretty.Sprint(points))
					return nil
				},
			},
		},
	}
}

func fromFlags(c *cli.Context) (*Client, models.Window, error) {
	window, err := models.ParseWindow(c.String("start-date"), c.String("end-date"))
	if err != nil {
		return nil, window, err
	}

	return New(c.String("url"), WithToken(c.String("token"))), window, nil
}
