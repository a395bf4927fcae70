package database

import (
	"database/sql"
	"fmt"
	"log"
	"sort"

	sq "github.com/Masterminds/squirrel"
	"github.com/facette/natsort"
	_ "github.com/mattn/go-sqlite3"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// PersonSummary is the public listing row for an approved person.
type PersonSummary struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	BirthYear int     `json:"birth_year"`
	DeathYear int     `json:"death_year"`
	Category  string  `json:"category"`
	ImageURL  *string `json:"image_url,omitempty"`
}

// AchievementSummary is the public listing row for an approved achievement.
type AchievementSummary struct {
	ID          int64   `json:"id"`
	PersonID    *string `json:"person_id,omitempty"`
	CountryID   *int64  `json:"country_id,omitempty"`
	Year        int     `json:"year"`
	Description string  `json:"description"`
	SourceLink  *string `json:"source_link,omitempty"`
}

// BrowseOptions are the public catalogue filters. Zero values mean "no
// filter"; YearFrom/YearTo select persons whose lifespan overlaps the range.
type BrowseOptions struct {
	Category  string
	CountryID int64
	YearFrom  int
	YearTo    int
	NameQuery string
	SortOrder string
	Limit     uint64
	Offset    uint64
}

// ListApprovedPeople queries the approved-only public view of the catalogue.
func ListApprovedPeople(db *sql.DB, opts BrowseOptions) ([]PersonSummary, error) {
	queryBuilder := psql.Select("id", "name", "birth_year", "death_year", "category", "image_url").
		From("people").
		Where(sq.Eq{"status": "approved"})

	if opts.Category != "" {
		queryBuilder = queryBuilder.Where(sq.Eq{"category": opts.Category})
	}
	if opts.NameQuery != "" {
		queryBuilder = queryBuilder.Where(sq.Like{"name": "%" + opts.NameQuery + "%"})
	}
	if opts.YearFrom != 0 {
		queryBuilder = queryBuilder.Where(sq.GtOrEq{"death_year": opts.YearFrom})
	}
	if opts.YearTo != 0 {
		queryBuilder = queryBuilder.Where(sq.LtOrEq{"birth_year": opts.YearTo})
	}
	if opts.CountryID != 0 {
		queryBuilder = queryBuilder.Where(
			"EXISTS (SELECT 1 FROM periods WHERE periods.person_id = people.id AND periods.country_id = ? AND periods.status = ?)",
			opts.CountryID, "approved",
		)
	}

	switch opts.SortOrder {
	case SortBirthAsc:
		queryBuilder = queryBuilder.OrderBy("birth_year ASC", "name ASC")
	case SortBirthDesc:
		queryBuilder = queryBuilder.OrderBy("birth_year DESC", "name ASC")
	case SortRecentlyUpd:
		queryBuilder = queryBuilder.OrderBy("updated_at DESC")
	default:
		// SortNameNat is applied in memory after the scan
		queryBuilder = queryBuilder.OrderBy("name ASC")
	}

	if opts.Limit > 0 {
		queryBuilder = queryBuilder.Limit(opts.Limit).Offset(opts.Offset)
	}

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for ListApprovedPeople: %w", err)
	}
	rows, err := db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute ListApprovedPeople query: %w", err)
	}
	defer rows.Close()

	people := []PersonSummary{}
	for rows.Next() {
		var p PersonSummary
		if err := rows.Scan(&p.ID, &p.Name, &p.BirthYear, &p.DeathYear, &p.Category, &p.ImageURL); err != nil {
			log.Printf("Error scanning person summary row: %v", err)
			continue
		}
		people = append(people, p)
	}
	if err = rows.Err(); err != nil {
		return people, fmt.Errorf("error iterating person summary rows: %w", err)
	}

	// natural ordering handles names with numerals better than a plain
	// collation ("Ramses 2" before "Ramses 10")
	if opts.SortOrder == SortNameNat {
		sort.SliceStable(people, func(i, j int) bool {
			return natsort.Compare(people[i].Name, people[j].Name)
		})
	}

	return people, nil
}

// ListApprovedAchievements queries approved achievements, optionally scoped
// to a person or country.
func ListApprovedAchievements(db *sql.DB, personID string, countryID int64) ([]AchievementSummary, error) {
	queryBuilder := psql.Select("id", "person_id", "country_id", "year", "description", "source_link").
		From("achievements").
		Where(sq.Eq{"status": "approved"}).
		OrderBy("year ASC")

	if personID != "" {
		queryBuilder = queryBuilder.Where(sq.Eq{"person_id": personID})
	}
	if countryID != 0 {
		queryBuilder = queryBuilder.Where(sq.Eq{"country_id": countryID})
	}

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for ListApprovedAchievements: %w", err)
	}
	rows, err := db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute ListApprovedAchievements query: %w", err)
	}
	defer rows.Close()

	achievements := []AchievementSummary{}
	for rows.Next() {
		var a AchievementSummary
		if err := rows.Scan(&a.ID, &a.PersonID, &a.CountryID, &a.Year, &a.Description, &a.SourceLink); err != nil {
			log.Printf("Error scanning achievement summary row: %v", err)
			continue
		}
		achievements = append(achievements, a)
	}
	if err = rows.Err(); err != nil {
		return achievements, fmt.Errorf("error iterating achievement summary rows: %w", err)
	}
	return achievements, nil
}

// CountApprovedPeopleByCategory powers the public category index.
func CountApprovedPeopleByCategory(db *sql.DB) (map[string]int, error) {
	queryBuilder := psql.Select("category", "COUNT(*)").
		From("people").
		Where(sq.Eq{"status": "approved"}).
		GroupBy("category")

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for CountApprovedPeopleByCategory: %w", err)
	}
	rows, err := db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute CountApprovedPeopleByCategory query: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			log.Printf("Error scanning category count row: %v", err)
			continue
		}
		counts[category] = count
	}
	if err = rows.Err(); err != nil {
		return counts, fmt.Errorf("error iterating category count rows: %w", err)
	}
	return counts, nil
}
