package intention

import "time"

// Status is the lifecycle state of an Intention.
type Status string

const (
	Pending   Status = "pending"
	Completed Status = "completed"
	Abandoned Status = "abandoned"
)

// Intention is a goal the user declares and then works on in Pomodoros.
type Intention struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
	Status      Status    `json:"status"`
	Estimate    *int      `json:"estimate,omitempty"` // expected number of Pomodoros
}

// Selectable reports whether a new Pomodoro may be started for i.
func (i Intention) Selectable() bool { return i.Status == Pending }

// ShortID returns the first eight characters of the identifier, enough to
// address an intention from the command line.
func (i Intention) ShortID() string {
	if len(i.ID) <= 8 {
		return i.ID
	}
	return i.ID[:8]
}

// Listener receives intention lifecycle notifications.
type Listener interface {
	IntentionAdded(Intention)
	IntentionAbandoned(Intention)
	IntentionCompleted(Intention)
}
