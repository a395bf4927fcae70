package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/chroniclehq/chroniclebackend/config"
	"github.com/chroniclehq/chroniclebackend/database"
	"github.com/chroniclehq/chroniclebackend/repository"
	"github.com/go-chi/chi/v5"
)

// BrowseHandler serves the public, approved-only catalogue. It reads through
// the raw SQL layer so listings never load workflow bookkeeping.
type BrowseHandler struct {
	DB         *sql.DB
	PersonRepo repository.PersonRepositoryInterface
	Cfg        config.Config
}

func NewBrowseHandler(db *sql.DB, personRepo repository.PersonRepositoryInterface, cfg config.Config) *BrowseHandler {
	return &BrowseHandler{DB: db, PersonRepo: personRepo, Cfg: cfg}
}

func queryInt(r *http.Request, name string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(name))
	return v
}

func queryInt64(r *http.Request, name string) int64 {
	v, _ := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	return v
}

// ListPeople returns the filtered, paginated public catalogue.
func (bh *BrowseHandler) ListPeople(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sortOrder := q.Get("sort")
	if !database.IsValidSortOrder(sortOrder) {
		sortOrder = database.SortNameAsc
	}

	limit := queryInt(r, "limit")
	if limit <= 0 {
		limit = bh.Cfg.BrowsePageSize
	}
	if limit > bh.Cfg.BrowseMaxPageSize {
		limit = bh.Cfg.BrowseMaxPageSize
	}
	offset := queryInt(r, "offset")
	if offset < 0 {
		offset = 0
	}

	opts := database.BrowseOptions{
		Category:  q.Get("category"),
		CountryID: queryInt64(r, "country_id"),
		YearFrom:  queryInt(r, "year_from"),
		YearTo:    queryInt(r, "year_to"),
		NameQuery: q.Get("q"),
		SortOrder: sortOrder,
		Limit:     uint64(limit),
		Offset:    uint64(offset),
	}

	people, err := database.ListApprovedPeople(bh.DB, opts)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "storage", "Failed to retrieve people")
		return
	}
	writeJSON(w, http.StatusOK, people)
}

// GetPerson returns one approved person with its approved periods and
// achievements. Unapproved records and unapproved dependents stay behind
// authentication; anonymous callers get a 404 either way.
func (bh *BrowseHandler) GetPerson(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "person_id")

	person, err := bh.PersonRepo.GetApprovedByID(personID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, person)
}

// ListAchievements returns approved achievements, optionally scoped by
// person or country.
func (bh *BrowseHandler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := database.ListApprovedAchievements(bh.DB, r.URL.Query().Get("person_id"), queryInt64(r, "country_id"))
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "storage", "Failed to retrieve achievements")
		return
	}
	writeJSON(w, http.StatusOK, achievements)
}

// Categories returns the public category index with approved counts.
func (bh *BrowseHandler) Categories(w http.ResponseWriter, r *http.Request) {
	counts, err := database.CountApprovedPeopleByCategory(bh.DB)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "storage", "Failed to retrieve categories")
		return
	}
	writeJSON(w, http.StatusOK, counts)
}
