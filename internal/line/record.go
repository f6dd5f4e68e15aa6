// Package line holds the unit of work passed from producers to consumers:
// one line of text together with where it came from.
package line

import "strconv"

// Record is one line read from a source. It is immutable once constructed;
// two records with identical fields are indistinguishable and both valid
// (the same line may appear in several sources).
type Record struct {
	source string
	num    int
	text   string
}

// New returns a record for the 1-based line number num of source.
func New(source string, num int, text string) Record {
	return Record{source: source, num: num, text: text}
}

// Source returns the identifier of the resource the line was read from.
func (r Record) Source() string { return r.source }

// LineNum returns the 1-based line number within the source.
func (r Record) LineNum() int { return r.num }

// Text returns the line without its line terminator.
func (r Record) Text() string { return r.text }

// String returns the display form "source:lineNumber:text".
func (r Record) String() string {
	return r.source + ":" + strconv.Itoa(r.num) + ":" + r.text
}

// Less orders records by source, then line number, then text. The pipeline
// itself never orders its output; this is for presentation and tests.
func Less(a, b Record) bool {
	if a.source != b.source {
		return a.source < b.source
	}
	if a.num != b.num {
		return a.num < b.num
	}
	return a.text < b.text
}
