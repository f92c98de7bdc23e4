package catalog

import (
	"sort"

	"github.com/mrlokans/calibre-catalog/internal/entities"
	"golang.org/x/text/cases"
)

// SortByTitle orders records by case-folded title. Equal titles keep their
// relative order.
func SortByTitle(records []entities.BookRecord) {
	fold := cases.Fold()

	keyed := make([]keyedRecord, len(records))
	for i, record := range records {
		keyed[i] = keyedRecord{key: fold.String(record.Title), record: record}
	}

	sort.SliceStable(keyed, func(i, j int) bool {
		return keyed[i].key < keyed[j].key
	})

	for i := range keyed {
		records[i] = keyed[i].record
	}
}

type keyedRecord struct {
	key    string
	record entities.BookRecord
}
