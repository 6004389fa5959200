// Package pipeline turns raw export rows into deduplicated Activity records.
//
// The interpreter is a left fold: each row is inspected together with the
// ambient section carried over from earlier rows, and yields a new section,
// an optional record and the decision taken. Nothing here performs I/O or
// returns errors; malformed fields degrade to unknown values in the parsers.
package pipeline

import (
	"strings"

	"github.com/sells-group/eca-cli/internal/classify"
	"github.com/sells-group/eca-cli/internal/model"
	"github.com/sells-group/eca-cli/internal/parse"
)

// MinColumns is the shortest row the interpreter accepts.
const MinColumns = 8

// Positional columns of the export.
const (
	colID = iota
	colSection
	colProgramme
	colFee
	colTeacher
	colDay
	colLocation
	colTime
	colCapacity
)

const (
	headStartMarker = "HeadStart"
	headStartPrefix = "HeadStart ECAs:"
)

// headerProgrammes are lower-cased programme cells that mark a header row.
var headerProgrammes = map[string]bool{
	"":                true,
	"programme":       true,
	"headstart ecas:": true,
}

// Decision records what the interpreter did with a row.
type Decision int

// Decisions.
const (
	DecisionShort   Decision = iota // fewer than MinColumns cells
	DecisionHeader                  // header marker row
	DecisionSection                 // section-only row
	DecisionSkip                    // no identifier or no programme
	DecisionEmit                    // data row, record emitted
)

var decisionNames = [...]string{"short", "header", "section", "skip", "emit"}

func (d Decision) String() string {
	if int(d) < len(decisionNames) {
		return decisionNames[d]
	}
	return "unknown"
}

// State is the ambient context threaded between rows.
type State struct {
	Section string
}

// row holds the trimmed cells of one input row.
type row struct {
	id, section, programme string
	fee, teacher, day      string
	location, time, cap    string
}

func readRow(cells []string) row {
	cell := func(i int) string {
		if i < len(cells) {
			return strings.TrimSpace(cells[i])
		}
		return ""
	}
	return row{
		id:        cell(colID),
		section:   cell(colSection),
		programme: cell(colProgramme),
		fee:       cell(colFee),
		teacher:   cell(colTeacher),
		day:       cell(colDay),
		location:  cell(colLocation),
		time:      cell(colTime),
		cap:       cell(colCapacity),
	}
}

// Step interprets one row. The returned activity is non-nil only for DecisionEmit.
//
// Header detection runs before the empty-identifier check because section
// header rows also carry no identifier.
func Step(st State, cells []string) (State, *model.Activity, Decision) {
	if len(cells) < MinColumns {
		return st, nil, DecisionShort
	}
	r := readRow(cells)

	if headerProgrammes[strings.ToLower(r.programme)] || strings.HasPrefix(r.programme, headStartPrefix) {
		if r.section != "" {
			st.Section = r.section
		}
		if strings.Contains(r.programme, headStartMarker) {
			st.Section = r.programme
		}
		return st, nil, DecisionHeader
	}

	if r.section != "" && r.id == "" {
		st.Section = r.section
		return st, nil, DecisionSection
	}

	if r.id == "" || r.programme == model.Missing {
		if strings.Contains(r.programme, headStartMarker) {
			st.Section = r.programme
		}
		return st, nil, DecisionSkip
	}

	act := buildActivity(r, st.Section)
	return st, &act, DecisionEmit
}

func buildActivity(r row, section string) model.Activity {
	fee, free := parse.Fee(r.fee)
	years := parse.YearGroups(r.programme)

	location := r.location
	if location == model.Missing {
		location = ""
	}

	return model.Activity{
		ID:           r.id,
		Name:         parse.CleanName(r.programme),
		NameOriginal: r.programme,
		Category:     classify.Category(r.programme, section),
		Level:        classify.Level(r.programme, section, years),
		Fee:          fee,
		IsFree:       free,
		YearGroups:   years,
		Schedule: model.Schedule{
			Days: parse.Days(r.day),
			Time: parse.TimeRange(r.time),
		},
		Location:   location,
		Teachers:   parse.Teachers(r.teacher),
		Capacity:   parse.Capacity(r.cap),
		InviteOnly: parse.InviteOnly(r.programme),
		Provider:   classify.Provider(section),
		Section:    section,
	}
}
