package stats

import (
	"cmp"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
)

// Ranked is a named count in a top-N list.
type Ranked struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// NormalizeRanked reads a ranked list whose records don't agree on key names.
//
// In each record the name is the first value that isn't a number and the
// value is the first that is. A record with only a number, like
// {"United States": 71}, is named by its key. Exports that lift the first row
// into the keys, like {"United States": "Canada", "71": 40}, give that row
// back too. Names are deduplicated ignoring case and surrounding space, the
// first one seen wins, and the result is sorted by value, highest first.
func NormalizeRanked(raw []byte) []Ranked {
	doc := gjson.ParseBytes(raw)
	if !doc.IsArray() {
		return []Ranked{}
	}

	var (
		out  = []Ranked{}
		seen = map[string]bool{}
	)
	add := func(r Ranked, ok bool) {
		if !ok {
			return
		}
		key := strings.ToLower(strings.TrimSpace(r.Name))
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		r.Name = strings.TrimSpace(r.Name)
		out = append(out, r)
	}

	first := true
	doc.ForEach(func(_, rec gjson.Result) bool {
		if !rec.IsObject() {
			return true
		}
		if first {
			add(headerRow(rec))
			first = false
		}
		add(record(rec))
		return true
	})

	slices.SortStableFunc(out, func(a, b Ranked) int {
		return cmp.Compare(b.Value, a.Value)
	})
	return out
}

// record reads one name/value pair out of rec.
func record(rec gjson.Result) (Ranked, bool) {
	var (
		r                 Ranked
		haveName, haveVal bool
		selfName          string
	)

	rec.ForEach(func(k, v gjson.Result) bool {
		n, numeric := number(v)
		switch {
		case numeric && !haveVal:
			r.Value, haveVal = n, true
			if _, keyNumeric := parseNumber(k.String()); !keyNumeric && selfName == "" {
				selfName = k.String()
			}
		case !numeric && v.Type == gjson.String && !haveName:
			r.Name, haveName = v.String(), true
		}
		return true
	})

	if !haveName && selfName != "" {
		r.Name, haveName = selfName, true
	}
	return r, haveName && haveVal
}

// headerRow recovers the row an export folded into the first record's keys:
// one key that is a name and another that is a number.
func headerRow(rec gjson.Result) (Ranked, bool) {
	var (
		r                 Ranked
		haveName, haveVal bool
	)

	rec.ForEach(func(k, _ gjson.Result) bool {
		key := k.String()
		if n, ok := parseNumber(key); ok {
			if !haveVal {
				r.Value, haveVal = n, true
			}
		} else if !haveName {
			r.Name, haveName = key, true
		}
		return true
	})

	return r, haveName && haveVal
}

// number reports the numeric value of v, reading numeric strings too.
func number(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Float(), true
	case gjson.String:
		return parseNumber(v.String())
	default:
		return 0, false
	}
}

func stripCommas(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", "")
}
