package database

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), gormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, Migrate(db))
	return db
}

func TestDSN(t *testing.T) {
	testCases := []struct {
		name     string
		config   DatabaseConfig
		expected string
	}{
		{
			name:     "sqlite file enables foreign keys",
			config:   DatabaseConfig{Driver: "sqlite", Path: "foodgram.sqlite"},
			expected: "foodgram.sqlite?_foreign_keys=on",
		},
		{
			name:     "sqlite in memory",
			config:   DatabaseConfig{Driver: "sqlite", Path: ":memory:"},
			expected: ":memory:",
		},
		{
			name:     "postgres fields",
			config:   DatabaseConfig{Driver: "postgres", Host: "db", User: "u", Password: "p", Name: "n", Port: "5432", SSLMode: "disable"},
			expected: "host=db user=u password=p dbname=n port=5432 sslmode=disable",
		},
		{
			name:     "postgres url wins",
			config:   DatabaseConfig{Driver: "postgres", Host: "db", URL: "postgres://u:p@db/n"},
			expected: "postgres://u:p@db/n",
		},
		{
			name:     "unknown driver",
			config:   DatabaseConfig{Driver: "mysql"},
			expected: "",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.DSN())
		})
	}
}

func TestDatabaseConfigStringMasksSecrets(t *testing.T) {
	cfg := DatabaseConfig{Driver: "postgres", Password: "hunter2", URL: "postgres://u:hunter2@db/n"}
	assert.NotContains(t, cfg.String(), "hunter2")
}

func TestInitDatabaseRejectsUnknownDriver(t *testing.T) {
	_, err := InitDatabase(DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}

func TestInitDatabaseSQLiteUsesSingleConnection(t *testing.T) {
	db, err := InitDatabase(DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	require.NoError(t, Migrate(db))
}

func TestInitDatabaseGivesUpAfterRetries(t *testing.T) {
	previous := firstRetryDelay
	firstRetryDelay = time.Millisecond
	defer func() { firstRetryDelay = previous }()

	path := filepath.Join(t.TempDir(), "missing", "foodgram.sqlite")
	_, err := InitDatabase(DatabaseConfig{Driver: "sqlite", Path: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 5 attempts")
}

func TestMigrateCreatesSchema(t *testing.T) {
	db := setupTestDB(t)

	for _, table := range []string{
		"users", "ingredients", "tags", "recipes", "recipe_ingredients", "recipe_tags",
		"favorites", "shopping_cart_entries", "subscriptions", "oauth_clients", "oauth_tokens",
	} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}

	// Running twice must be harmless
	require.NoError(t, Migrate(db))
}

func TestSeed(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Seed(db))
	require.NoError(t, Seed(db))

	var tags, ingredients int64
	db.Model(&models.Tag{}).Count(&tags)
	db.Model(&models.Ingredient{}).Count(&ingredients)
	assert.Equal(t, int64(len(defaultTags)), tags)
	assert.Equal(t, int64(len(defaultIngredients)), ingredients)
}

func TestImportIngredients(t *testing.T) {
	db := setupTestDB(t)

	input := `[
		{"name": "flour", "measurement_unit": "g"},
		{"name": "flour", "measurement_unit": "kg"},
		{"name": " milk ", "measurement_unit": "ml"}
	]`
	created, err := ImportIngredients(db, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, int64(3), created)

	t.Run("existing pairs are skipped", func(t *testing.T) {
		created, err := ImportIngredients(db, strings.NewReader(`[{"name": "flour", "measurement_unit": "g"}, {"name": "salt", "measurement_unit": "pinch"}]`))
		require.NoError(t, err)
		assert.Equal(t, int64(1), created)

		var count int64
		db.Model(&models.Ingredient{}).Count(&count)
		assert.Equal(t, int64(4), count)
	})

	t.Run("values are trimmed", func(t *testing.T) {
		var milk models.Ingredient
		require.NoError(t, db.Where("name = ?", "milk").First(&milk).Error)
		assert.Equal(t, "ml", milk.MeasurementUnit)
	})

	t.Run("blank fields are rejected", func(t *testing.T) {
		_, err := ImportIngredients(db, strings.NewReader(`[{"name": "", "measurement_unit": "g"}]`))
		assert.Error(t, err)
	})

	t.Run("malformed json is rejected", func(t *testing.T) {
		_, err := ImportIngredients(db, strings.NewReader(`{`))
		assert.Error(t, err)
	})
}
