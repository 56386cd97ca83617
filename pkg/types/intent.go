package types

// IntentCategory is the closed set of request categories the deterministic
// classifier can resolve free text into.
type IntentCategory string

// Intent category constants, in classifier priority order.
const (
	IntentMood           IntentCategory = "mood"
	IntentActivity       IntentCategory = "activity"
	IntentMedical        IntentCategory = "medical"
	IntentTime           IntentCategory = "time"
	IntentType           IntentCategory = "type"
	IntentSearch         IntentCategory = "search"
	IntentEducation      IntentCategory = "education"
	IntentRecommendation IntentCategory = "recommendation"
	IntentUnknown        IntentCategory = "unknown"
)

// Intent is the transient result of classifying one user message.
// Entities maps extraction keys (e.g. "mood", "query") to string values.
type Intent struct {
	Category IntentCategory
	Entities map[string]string
}

// Entity returns the named entity value or "" when absent.
func (i Intent) Entity(name string) string {
	return i.Entities[name]
}
