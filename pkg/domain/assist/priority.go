// Package assist holds the task assistant's payload types and the deterministic
// logic shared by the server gateway and the client SDK: the keyword classifier,
// the fallback generators and the dashboard statistics.
package assist

import (
	"fmt"
	"strings"
)

// PriorityLabel classifies task urgency. It is a closed set of three values.
type PriorityLabel string

const (
	PriorityMostImportant  PriorityLabel = "Most Important"
	PriorityImportant      PriorityLabel = "Important"
	PriorityLeastImportant PriorityLabel = "Least Important"
)

// priorityOrder defines the ordering of labels (higher order = more urgent)
var priorityOrder = map[PriorityLabel]int{
	PriorityLeastImportant: 1,
	PriorityImportant:      2,
	PriorityMostImportant:  3,
}

// AllPriorityLabels returns the labels from most to least urgent.
func AllPriorityLabels() []PriorityLabel {
	return []PriorityLabel{
		PriorityMostImportant,
		PriorityImportant,
		PriorityLeastImportant,
	}
}

// IsValid returns true if the label is one of the three known labels.
func (p PriorityLabel) IsValid() bool {
	_, ok := priorityOrder[p]
	return ok
}

// String returns the string representation of the label.
func (p PriorityLabel) String() string {
	return string(p)
}

// Order returns the numeric order of the label (higher = more urgent), 0 if invalid.
func (p PriorityLabel) Order() int {
	return priorityOrder[p]
}

// Color returns the badge color the dashboards use for the label.
func (p PriorityLabel) Color() string {
	switch p {
	case PriorityMostImportant:
		return "red"
	case PriorityImportant:
		return "yellow"
	case PriorityLeastImportant:
		return "green"
	default:
		return "gray"
	}
}

// ParsePriorityLabel converts free text into a PriorityLabel.
//
// Model answers are rarely exact, so surrounding whitespace, quotes, markdown
// emphasis and a trailing period are stripped and the comparison ignores case.
// Anything that still does not name one of the three labels is rejected.
func ParsePriorityLabel(s string) (PriorityLabel, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.Trim(cleaned, "\"'`*_")
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), ".")
	cleaned = strings.Trim(cleaned, "\"'`*_ ")

	for _, label := range AllPriorityLabels() {
		if strings.EqualFold(cleaned, string(label)) {
			return label, nil
		}
	}
	return "", fmt.Errorf("invalid priority label: %q", s)
}
