package core

import "sort"

// DedupByKey keeps the first item seen for every key, preserving encounter
// order.
func DedupByKey[T any, K comparable](items []T, key func(T) K) []T {
	if len(items) == 0 {
		return []T{}
	}
	seen := make(map[K]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}

// GroupTotal accumulates the summed fields of every record sharing a key.
type GroupTotal[K comparable] struct {
	Key    K
	Label  string
	Totals map[string]float64
	Count  int
}

// GroupKeyFunc extracts the group key and a display label. Records for which
// ok is false are ignored.
type GroupKeyFunc[K comparable] func(record Record) (key K, label string, ok bool)

// GroupAndSum sums amountFields per key and counts occurrences. The result is
// sorted descending by the first amount field, ties keep encounter order, and
// is truncated to limit when limit > 0.
func GroupAndSum[K comparable](records []Record, keyFn GroupKeyFunc[K], amountFields []string, limit int) []GroupTotal[K] {
	index := map[K]int{}
	groups := []GroupTotal[K]{}
	for _, record := range records {
		key, label, ok := keyFn(record)
		if !ok {
			continue
		}
		position, exists := index[key]
		if !exists {
			position = len(groups)
			index[key] = position
			groups = append(groups, GroupTotal[K]{
				Key:    key,
				Label:  label,
				Totals: make(map[string]float64, len(amountFields)),
			})
		}
		group := &groups[position]
		for _, field := range amountFields {
			group.Totals[field] += record.Float(field)
		}
		group.Count++
	}

	if len(amountFields) > 0 {
		primary := amountFields[0]
		sort.SliceStable(groups, func(i, j int) bool {
			return groups[i].Totals[primary] > groups[j].Totals[primary]
		})
	}
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

// Many2OneKey groups by a relational [id, name] field.
func Many2OneKey(field string) GroupKeyFunc[int64] {
	return func(record Record) (int64, string, bool) {
		return record.Many2One(field)
	}
}
