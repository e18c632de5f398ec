package algo

import (
	"sort"

	"github.com/huangsam/storecheck/schema"
)

// RankSubmissions sorts submissions by percent in descending order and returns
// the top 'limit' records. Ties go to the most recent submission. If limit is
// not positive or exceeds the number of records, all records are returned.
func RankSubmissions(records []schema.SubmissionRecord, limit int) []schema.SubmissionRecord {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Percent != records[j].Percent {
			return records[i].Percent > records[j].Percent
		}
		return records[i].SubmittedAt.After(records[j].SubmittedAt)
	})
	if limit > 0 && len(records) > limit {
		return records[:limit]
	}
	return records
}

// RankAreaManagers sorts AM candidates by store count in descending order,
// then by id so the listing is stable.
func RankAreaManagers(ams []schema.AreaManager) []schema.AreaManager {
	sort.Slice(ams, func(i, j int) bool {
		if ams[i].StoreCount != ams[j].StoreCount {
			return ams[i].StoreCount > ams[j].StoreCount
		}
		return ams[i].ID < ams[j].ID
	})
	return ams
}
