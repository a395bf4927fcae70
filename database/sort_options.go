package database

const (
	SortNameAsc     = "name_asc"
	SortNameNat     = "name_nat"
	SortBirthAsc    = "birth_asc"
	SortBirthDesc   = "birth_desc"
	SortRecentlyUpd = "updated_desc"
)

const DefaultSortOrder = SortNameAsc

// IsValidSortOrder checks if a string is a valid sort order constant
func IsValidSortOrder(order string) bool {
	switch order {
	case SortNameAsc, SortNameNat, SortBirthAsc, SortBirthDesc, SortRecentlyUpd:
		return true
	default:
		return false
	}
}
