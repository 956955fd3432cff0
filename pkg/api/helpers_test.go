package api

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// mustID parses hex, or returns a fresh id that matches nothing when hex is
// empty.
func mustID(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()

	if hex == "" {
		return primitive.NewObjectID()
	}

	id, err := primitive.ObjectIDFromHex(hex)
	require.NoError(t, err)

	return id
}
