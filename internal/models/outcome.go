// Package models defines the domain types shared by the converters: the
// three-way conversion outcome, the closed transaction-code vocabulary and
// the canonical interchange record layouts.
package models

// OutcomeKind classifies the result of converting one input row.
type OutcomeKind int

const (
	// KindConverted means the row produced a canonical output record.
	KindConverted OutcomeKind = iota
	// KindSkipped means the row produced no output and is not an error.
	// Jobs accept this only for blank rows; a populated row a converter
	// skips is reclassified as unconvertible.
	KindSkipped
	// KindUnconvertible means the row could not be mapped and must be
	// preserved in the error sidecar.
	KindUnconvertible
)

// Outcome is the tagged result of one converter invocation. Every input row
// maps to exactly one outcome; rows are never silently dropped.
type Outcome struct {
	Kind OutcomeKind
	// Line is the formatted canonical record, without a terminator.
	// Set only when Kind is KindConverted.
	Line string
	// Raw preserves the original row verbatim for the error sidecar.
	// Set only when Kind is KindUnconvertible.
	Raw string
}

// Converted wraps a formatted canonical record.
func Converted(line string) Outcome {
	return Outcome{Kind: KindConverted, Line: line}
}

// Skipped marks a row that legitimately produces no output.
func Skipped() Outcome {
	return Outcome{Kind: KindSkipped}
}

// Unconvertible marks a row that could not be mapped, keeping the original
// text for the error sidecar.
func Unconvertible(raw string) Outcome {
	return Outcome{Kind: KindUnconvertible, Raw: raw}
}
