// Package dictrecord classifies single lines of the userdb sync text format.
//
// A record line looks like:
//
//	ni hao\t你好\tc=1 d=0.00687406 t=31469
//
// The key text comes first, the entry text follows after a tab, and the tail
// is a run of space-delimited key=value tokens. The only token this package
// interprets is `c`, the commitment weight: a record is invalid when its `c`
// value parses to a number <= 0. Anything ambiguous (no `c` token, malformed
// number) is kept; cleanup must never drop a line it cannot read.
package dictrecord

import (
	"strconv"
	"strings"
	"unicode"
)

// weightToken marks the start of the commitment weight in the k=v tail.
const weightToken = "c="

// Classification is the keep/drop decision for one record line, together with
// the human-readable label reported for dropped lines.
type Classification struct {
	Keep  bool
	Label string
}

// Classify decides whether a record line survives compaction.
// Empty lines must be filtered out by the caller before classification.
func Classify(line string) Classification {
	return Classification{
		Keep:  Weight(line) > 0,
		Label: Label(line),
	}
}

// Weight extracts and parses the `c` value of a record line.
// It scans for the RIGHTMOST occurrence of "c=": trailing metadata tokens can
// sit next to similarly-prefixed substrings in the free-form key text, and the
// weight is always the last such token on compatible lines.
// A missing or unparsable token yields 1, keeping the line (fail open).
func Weight(line string) float64 {
	pos := strings.LastIndex(line, weightToken)
	if pos < 0 {
		return 1
	}
	pos += len(weightToken)

	// The numeric token runs until the next whitespace or end of line.
	end := pos
	for end < len(line) && !unicode.IsSpace(rune(line[end])) {
		end++
	}

	value, err := strconv.ParseFloat(line[pos:end], 64)
	if err != nil {
		return 1
	}
	return value
}

// Label extracts the entry text of a record line, used when reporting dropped
// entries. The entry text sits strictly between the first and second tab.
// Lines with fewer tabs degrade: one tab means everything after it, no tab
// means the whole line.
func Label(line string) string {
	firstTab := strings.IndexByte(line, '\t')
	if firstTab < 0 {
		return line
	}

	secondTab := strings.IndexByte(line[firstTab+1:], '\t')
	if secondTab < 0 {
		return line[firstTab+1:]
	}

	return line[firstTab+1 : firstTab+1+secondTab]
}
