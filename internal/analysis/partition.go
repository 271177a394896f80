package analysis

import (
	"strconv"

	"github.com/KaramelBytes/paradox-cli/internal/dataset"
)

// UnknownGroup collects rows whose category cell is missing, so group sizes
// always add up to the table's row count.
const UnknownGroup = "(missing)"

// Group is one category of a partition and the table rows that belong to it.
type Group struct {
	Key  string
	Rows []int
}

// Size returns the number of rows in the group.
func (g Group) Size() int { return len(g.Rows) }

// Partition groups records by their Group field in first-seen order.
func Partition(recs []dataset.Record) []Group {
	keys := make([]string, len(recs))
	for i, r := range recs {
		keys[i] = r.Group
	}
	return PartitionKeys(keys)
}

// PartitionKeys groups row indexes by key; "" maps to UnknownGroup. A category
// literally named UnknownGroup is kept apart under its quoted name.
func PartitionKeys(keys []string) []Group {
	var groups []Group
	pos := map[string]int{}
	for i, k := range keys {
		switch k {
		case "":
			k = UnknownGroup
		case UnknownGroup:
			k = strconv.Quote(k)
		}
		j, ok := pos[k]
		if !ok {
			j = len(groups)
			pos[k] = j
			groups = append(groups, Group{Key: k})
		}
		groups[j].Rows = append(groups[j].Rows, i)
	}
	return groups
}
