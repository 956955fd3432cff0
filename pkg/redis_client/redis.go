package redis_client

import (
	"context"
	"strconv"

	"github.com/adjust/rmq/v5"
	"github.com/redis/go-redis/v9"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/util"
)

var Client *redis.Client
var QueueConnection rmq.Connection

const defaultConnectionPassword = ""
const defaultDatabase = 0

// Configured reports whether a Redis address has been provided. Events and
// the user cache are switched off without one.
func Configured() bool {
	return util.GetEnvironmentVariables()["ROADSAFETY_REDIS_ADDRESS"] != ""
}

func Connect() error {
	password := defaultConnectionPassword
	database := defaultDatabase

	env := util.GetEnvironmentVariables()

	address := util.EnvironmentOrDefault(env, "ROADSAFETY_REDIS_ADDRESS", "localhost:6379")

	if env["ROADSAFETY_REDIS_PASSWORD"] != "" {
		password = env["ROADSAFETY_REDIS_PASSWORD"]
	}

	if env["ROADSAFETY_REDIS_DATABASE"] != "" {
		n, err := strconv.Atoi(env["ROADSAFETY_REDIS_DATABASE"])
		if err != nil {
			return err
		}
		database = n
	}

	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return err
	}

	return Use(client)
}

// Use installs an already connected client, opening the queue connection on
// top of it.
func Use(client *redis.Client) error {
	queueConnection, err := rmq.OpenConnectionWithRedisClient("roadsafety", client, nil)
	if err != nil {
		return err
	}

	Client = client
	QueueConnection = queueConnection

	return nil
}
