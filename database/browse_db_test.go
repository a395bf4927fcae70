package database

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chroniclehq/chroniclebackend/lifecycle"
	"github.com/chroniclehq/chroniclebackend/models"
)

// setupBrowseDB migrates the schema through GORM and hands back the raw
// connection the browse queries run against.
func setupBrowseDB(t *testing.T) (*gorm.DB, *sql.DB) {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, AutoMigrateModels(gormDB))
	return gormDB, sqlDB
}

func seedPerson(t *testing.T, db *gorm.DB, id, name, category string, birth, death int, status lifecycle.Status) {
	t.Helper()
	require.NoError(t, db.Create(&models.Person{
		ID:        id,
		Name:      name,
		BirthYear: birth,
		DeathYear: death,
		Category:  category,
		Status:    status,
		CreatedBy: 1,
		CreatedAt: 1000,
		UpdatedAt: 1000,
	}).Error)
}

func TestListApprovedPeopleFiltersStatus(t *testing.T) {
	gormDB, sqlDB := setupBrowseDB(t)

	seedPerson(t, gormDB, "visible", "Visible Person", "scientist", 1900, 1950, lifecycle.StatusApproved)
	seedPerson(t, gormDB, "hidden-draft", "Hidden Draft", "scientist", 1900, 1950, lifecycle.StatusDraft)
	seedPerson(t, gormDB, "hidden-pending", "Hidden Pending", "scientist", 1900, 1950, lifecycle.StatusPending)
	seedPerson(t, gormDB, "hidden-rejected", "Hidden Rejected", "scientist", 1900, 1950, lifecycle.StatusRejected)

	people, err := ListApprovedPeople(sqlDB, BrowseOptions{})
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "visible", people[0].ID)
}

func TestListApprovedPeopleFilters(t *testing.T) {
	gormDB, sqlDB := setupBrowseDB(t)

	seedPerson(t, gormDB, "curie", "Marie Curie", "scientist", 1867, 1934, lifecycle.StatusApproved)
	seedPerson(t, gormDB, "caesar", "Julius Caesar", "ruler", -100, -44, lifecycle.StatusApproved)

	people, err := ListApprovedPeople(sqlDB, BrowseOptions{Category: "ruler"})
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "caesar", people[0].ID)

	people, err = ListApprovedPeople(sqlDB, BrowseOptions{NameQuery: "curie"})
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "curie", people[0].ID)

	// lifespan overlap: alive at any point within [1900, 1950]
	people, err = ListApprovedPeople(sqlDB, BrowseOptions{YearFrom: 1900, YearTo: 1950})
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "curie", people[0].ID)
}

func TestListApprovedPeopleCountryFilterUsesApprovedPeriods(t *testing.T) {
	gormDB, sqlDB := setupBrowseDB(t)

	seedPerson(t, gormDB, "curie", "Marie Curie", "scientist", 1867, 1934, lifecycle.StatusApproved)
	seedPerson(t, gormDB, "bohr", "Niels Bohr", "scientist", 1885, 1962, lifecycle.StatusApproved)

	require.NoError(t, gormDB.Create(&models.Period{
		PersonID: "curie", CountryID: 42, StartYear: 1867, EndYear: 1934,
		PeriodType: models.PeriodTypeLife, Status: lifecycle.StatusApproved,
		CreatedBy: 1, CreatedAt: 1000, UpdatedAt: 1000,
	}).Error)
	// a pending period does not make the person browsable by country
	require.NoError(t, gormDB.Create(&models.Period{
		PersonID: "bohr", CountryID: 42, StartYear: 1885, EndYear: 1962,
		PeriodType: models.PeriodTypeLife, Status: lifecycle.StatusPending,
		CreatedBy: 1, CreatedAt: 1000, UpdatedAt: 1000,
	}).Error)

	people, err := ListApprovedPeople(sqlDB, BrowseOptions{CountryID: 42})
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "curie", people[0].ID)
}

func TestListApprovedPeopleNaturalSort(t *testing.T) {
	gormDB, sqlDB := setupBrowseDB(t)

	seedPerson(t, gormDB, "ramses-10", "Ramses 10", "ruler", -1200, -1150, lifecycle.StatusApproved)
	seedPerson(t, gormDB, "ramses-2", "Ramses 2", "ruler", -1300, -1213, lifecycle.StatusApproved)

	people, err := ListApprovedPeople(sqlDB, BrowseOptions{SortOrder: SortNameNat})
	require.NoError(t, err)
	require.Len(t, people, 2)
	assert.Equal(t, "Ramses 2", people[0].Name)
	assert.Equal(t, "Ramses 10", people[1].Name)

	// plain collation gets this backwards
	people, err = ListApprovedPeople(sqlDB, BrowseOptions{SortOrder: SortNameAsc})
	require.NoError(t, err)
	require.Len(t, people, 2)
	assert.Equal(t, "Ramses 10", people[0].Name)
}

func TestListApprovedPeoplePagination(t *testing.T) {
	gormDB, sqlDB := setupBrowseDB(t)

	seedPerson(t, gormDB, "a", "Alpha", "x", 1900, 1950, lifecycle.StatusApproved)
	seedPerson(t, gormDB, "b", "Beta", "x", 1900, 1950, lifecycle.StatusApproved)
	seedPerson(t, gormDB, "c", "Gamma", "x", 1900, 1950, lifecycle.StatusApproved)

	page, err := ListApprovedPeople(sqlDB, BrowseOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Alpha", page[0].Name)

	page, err = ListApprovedPeople(sqlDB, BrowseOptions{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Gamma", page[0].Name)
}

func TestListApprovedAchievements(t *testing.T) {
	gormDB, sqlDB := setupBrowseDB(t)

	seedPerson(t, gormDB, "curie", "Marie Curie", "scientist", 1867, 1934, lifecycle.StatusApproved)
	personID := "curie"
	countryID := int64(42)
	require.NoError(t, gormDB.Create(&models.Achievement{
		PersonID: &personID, CountryID: &countryID, Year: 1911,
		Description: "Second Nobel", Status: lifecycle.StatusApproved,
		CreatedBy: 1, CreatedAt: 1000, UpdatedAt: 1000,
	}).Error)
	require.NoError(t, gormDB.Create(&models.Achievement{
		PersonID: &personID, Year: 1903,
		Description: "First Nobel", Status: lifecycle.StatusApproved,
		CreatedBy: 1, CreatedAt: 1000, UpdatedAt: 1000,
	}).Error)
	require.NoError(t, gormDB.Create(&models.Achievement{
		PersonID: &personID, Year: 1920,
		Description: "Still pending", Status: lifecycle.StatusPending,
		CreatedBy: 1, CreatedAt: 1000, UpdatedAt: 1000,
	}).Error)

	got, err := ListApprovedAchievements(sqlDB, "curie", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1903, got[0].Year)
	assert.Equal(t, 1911, got[1].Year)

	got, err = ListApprovedAchievements(sqlDB, "", 42)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Second Nobel", got[0].Description)
}

func TestCountApprovedPeopleByCategory(t *testing.T) {
	gormDB, sqlDB := setupBrowseDB(t)

	seedPerson(t, gormDB, "a", "Alpha", "scientist", 1900, 1950, lifecycle.StatusApproved)
	seedPerson(t, gormDB, "b", "Beta", "scientist", 1900, 1950, lifecycle.StatusApproved)
	seedPerson(t, gormDB, "c", "Gamma", "ruler", 1900, 1950, lifecycle.StatusApproved)
	seedPerson(t, gormDB, "d", "Delta", "ruler", 1900, 1950, lifecycle.StatusDraft)

	counts, err := CountApprovedPeopleByCategory(sqlDB)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"scientist": 2, "ruler": 1}, counts)
}

func TestIsValidSortOrder(t *testing.T) {
	for _, order := range []string{SortNameAsc, SortNameNat, SortBirthAsc, SortBirthDesc, SortRecentlyUpd} {
		assert.True(t, IsValidSortOrder(order), order)
	}
	assert.False(t, IsValidSortOrder("random"))
	assert.False(t, IsValidSortOrder(""))
}
