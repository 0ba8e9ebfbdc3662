package benchmark

import (
	"errors"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// NormalizeProcessor canonicalizes a processor name so that the strings
// reported by solvers line up with the mark table entries. Trademark
// suffixes and the filler token "CPU" are dropped, whitespace is collapsed
// and the result is lowercased, e.g.
//
//	"Intel(R) Core(TM) i7-9750H CPU @ 2.60GHz" -> "intel core i7-9750h @ 2.60ghz"
func NormalizeProcessor(name string) string {
	s := strings.NewReplacer("(R)", "", "(r)", "", "(TM)", "", "(tm)", "").Replace(name)

	kept := make([]string, 0, 8)
	for _, tok := range strings.Fields(s) {
		if strings.EqualFold(tok, "CPU") {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.ToLower(strings.Join(kept, " "))
}

// extractMarks pulls (name, single-thread mark) pairs out of the raw table
// payload. The table is a JSON object whose "data" field holds one entry
// per processor; marks arrive either as numbers or as grouped strings like
// "2,362".
func extractMarks(payload []byte) (map[string]float64, error) {
	data := gjson.GetBytes(payload, "data")
	if !data.IsArray() {
		return nil, errors.New("payload has no data array")
	}

	marks := make(map[string]float64)
	data.ForEach(func(_, entry gjson.Result) bool {
		name := entry.Get("name").String()
		mark, ok := parseMark(entry.Get("thread"))
		if name == "" || !ok || mark <= 0 {
			return true
		}
		marks[NormalizeProcessor(name)] = mark
		return true
	})

	if len(marks) == 0 {
		return nil, errors.New("payload contains no usable marks")
	}
	return marks, nil
}

func parseMark(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Float(), true
	case gjson.String:
		mark, err := strconv.ParseFloat(strings.ReplaceAll(v.String(), ",", ""), 64)
		if err != nil {
			return 0, false
		}
		return mark, true
	default:
		return 0, false
	}
}
