package enums

import "fmt"

// RemoteSortKey names an ordering applied by the data service (SQL ORDER BY).
// Price orderings can additionally be re-derived client-side; newest and
// popularity are only meaningful remotely and stay no-ops in the local
// filter path.
type RemoteSortKey string

const (
	SortKeyNewest     RemoteSortKey = "newest"
	SortKeyPriceAsc   RemoteSortKey = "price_asc"
	SortKeyPriceDesc  RemoteSortKey = "price_desc"
	SortKeyPopularity RemoteSortKey = "popularity"
)

var validRemoteSortKeys = []RemoteSortKey{
	SortKeyNewest,
	SortKeyPriceAsc,
	SortKeyPriceDesc,
	SortKeyPopularity,
}

// String implements fmt.Stringer.
func (k RemoteSortKey) String() string {
	return string(k)
}

// IsValid reports whether the value is a known RemoteSortKey.
func (k RemoteSortKey) IsValid() bool {
	for _, candidate := range validRemoteSortKeys {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseRemoteSortKey converts raw input into a RemoteSortKey, defaulting to
// newest for empty input.
func ParseRemoteSortKey(value string) (RemoteSortKey, error) {
	if value == "" {
		return SortKeyNewest, nil
	}
	for _, candidate := range validRemoteSortKeys {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort key %q", value)
}
