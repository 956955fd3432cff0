package database

import (
	"context"
	"time"

	"github.com/roadsafetyguard/roadsafetyguard/pkg/util"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

type MongoInstance struct {
	Client   *mongo.Client
	Database *mongo.Database
}

var MongoGlobalInstance *MongoInstance

const defaultMongoConnectionString = "mongodb://localhost:27017/road-safety-guard"
const defaultMongoDatabase = "road-safety-guard"

const (
	AccidentsCollection = "accidents"
	UsersCollection     = "users"
)

// Connect opens the global MongoDB connection. The database name comes from
// ROADSAFETY_MONGODB_DATABASE, then the path of MONGODB_URI, then the default.
func Connect() error {
	env := util.GetEnvironmentVariables()

	connectionString := util.EnvironmentOrDefault(env, "MONGODB_URI", defaultMongoConnectionString)
	dbName := databaseName(connectionString, env["ROADSAFETY_MONGODB_DATABASE"])

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(connectionString))
	if err != nil {
		return err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return err
	}

	MongoGlobalInstance = &MongoInstance{
		Client:   client,
		Database: client.Database(dbName),
	}

	return nil
}

func Disconnect(ctx context.Context) error {
	if MongoGlobalInstance == nil {
		return nil
	}

	return MongoGlobalInstance.Client.Disconnect(ctx)
}

func GetCollection(collectionName string) *mongo.Collection {
	return MongoGlobalInstance.Database.Collection(collectionName)
}

func databaseName(connectionString string, override string) string {
	if override != "" {
		return override
	}

	parsed, err := connstring.Parse(connectionString)
	if err == nil && parsed.Database != "" {
		return parsed.Database
	}

	return defaultMongoDatabase
}
