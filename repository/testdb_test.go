package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chroniclehq/chroniclebackend/database"
	"github.com/chroniclehq/chroniclebackend/intervals"
	"github.com/chroniclehq/chroniclebackend/lifecycle"
	"github.com/chroniclehq/chroniclebackend/realtime"
)

var (
	testContributor = lifecycle.Actor{ID: 10, Role: lifecycle.RoleContributor, Email: "alice@example.com"}
	testOther       = lifecycle.Actor{ID: 11, Role: lifecycle.RoleContributor, Email: "bob@example.com"}
	testModerator   = lifecycle.Actor{ID: 20, Role: lifecycle.RoleModerator, Email: "mod@example.com"}
)

// setupTestDB opens a throwaway in-memory database with the full schema.
// A single connection keeps all of GORM's pooled sessions on the same
// in-memory instance.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrateModels(db))
	return db
}

// captureNotifier records emitted events for assertions.
type captureNotifier struct {
	events []realtime.Event
}

func (c *captureNotifier) Notify(event realtime.Event) {
	c.events = append(c.events, event)
}

func (c *captureNotifier) kinds() []string {
	out := make([]string, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.Kind)
	}
	return out
}

// fullLifespan is the smallest valid life-period set: a single interval,
// which expands to cover the whole lifespan.
func fullLifespan(countryID int64) []intervals.Interval {
	return []intervals.Interval{{CountryID: countryID, StartYear: 0, EndYear: 0}}
}
