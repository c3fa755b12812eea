package contest

import "context"

// Fallback messages for failed actions whose error carries no detail
const (
	MarkSolvedFailed = "Failed to mark as solved"
	CompleteFailed   = "Failed to complete contest"
	AbandonFailed    = "Failed to abandon contest"
	GenerateFailed   = "Failed to generate contest"
)

// AbandonPrompt is the question put to the user before abandoning
const AbandonPrompt = "Are you sure you want to abandon this contest?"

// Notifier shows a blocking message to the user
type Notifier interface {
	Notify(message string)
}

// ConfirmFunc asks the user a yes/no question
type ConfirmFunc func(prompt string) bool

// Confirmed is a ConfirmFunc for callers that already asked
func Confirmed(string) bool { return true }

// IdentityRefresher pulls the server's view of the identity after a
// state-changing action
type IdentityRefresher interface {
	Refresh(ctx context.Context)
}
