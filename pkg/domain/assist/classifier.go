package assist

import "strings"

var (
	urgentKeywords    = []string{"urgent", "asap", "immediate", "critical", "deadline"}
	importantKeywords = []string{"important", "review", "update", "meeting"}
)

// Classify maps task text to a priority using fixed keyword lists.
// Urgency keywords win over importance keywords when both appear.
func Classify(title, description string) PriorityLabel {
	text := strings.ToLower(title + " " + description)

	if containsAny(text, urgentKeywords) {
		return PriorityMostImportant
	}
	if containsAny(text, importantKeywords) {
		return PriorityImportant
	}
	return PriorityLeastImportant
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
