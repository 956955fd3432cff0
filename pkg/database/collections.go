package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateIndexes makes sure the indexes the report listings and analytics
// lean on exist. It is safe to run repeatedly.
func CreateIndexes(ctx context.Context) error {
	if err := createAccidentsIndexes(ctx); err != nil {
		return err
	}

	return createUsersIndexes(ctx)
}

func AccidentsIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "dateTime", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "severity", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "isVerified", Value: 1}, {Key: "dateTime", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "reportedBy", Value: 1}},
		},
	}
}

func UsersIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	}
}

func createAccidentsIndexes(ctx context.Context) error {
	accidentsCollection := GetCollection(AccidentsCollection)

	_, err := accidentsCollection.Indexes().CreateMany(ctx, AccidentsIndexes(), options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Str("collection", AccidentsCollection).Msg("Creating Index")
	}

	return err
}

func createUsersIndexes(ctx context.Context) error {
	usersCollection := GetCollection(UsersCollection)

	_, err := usersCollection.Indexes().CreateMany(ctx, UsersIndexes(), options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Str("collection", UsersCollection).Msg("Creating Index")
	}

	return err
}
