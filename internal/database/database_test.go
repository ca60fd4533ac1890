package database

import (
	"testing"

	"bondtree/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectTest_MigratesAllModels(t *testing.T) {
	db, err := ConnectTest()
	require.NoError(t, err)

	tables := []string{
		"users", "credentials", "friendships",
		"mood_entries", "custom_moods",
		"posts", "post_media", "reactions", "comments",
	}
	for _, table := range tables {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestConnectTest_ReactionUniqueIndex(t *testing.T) {
	db, err := ConnectTest()
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasIndex(&models.Reaction{}, "idx_user_post_kind"))
}

func TestConnectTest_ExpressionIndexes(t *testing.T) {
	db, err := ConnectTest()
	require.NoError(t, err)

	// Raw-SQL indexes AutoMigrate cannot express: pair uniqueness for
	// friendships and case-insensitive uniqueness for users
	assert.True(t, db.Migrator().HasIndex(&models.Friendship{}, "idx_friendship_pair"))
	assert.True(t, db.Migrator().HasIndex(&models.User{}, "idx_users_username_lower"))
	assert.True(t, db.Migrator().HasIndex(&models.User{}, "idx_users_email_lower"))
}

func TestAllModels_CoversRegisteredTables(t *testing.T) {
	assert.Len(t, allModels(), 9)
}
