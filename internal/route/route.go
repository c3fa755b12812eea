// Package route names the client's screens and the navigation seam between
// controllers and whatever renders them.
package route

// Route identifies a screen
type Route string

const (
	// Entry is the sign-in/register screen
	Entry Route = "/"
	// Levels is the post-auth landing and contest selection screen
	Levels Route = "/levels"
	// Fight is the active contest screen
	Fight Route = "/fight"
	// Result shows a completed contest's result
	Result Route = "/result"
)

// Navigator moves the user to another screen. Payload carries per-screen
// state such as the Result for the Result screen; it may be nil.
type Navigator interface {
	Navigate(to Route, payload any)
}

// Recorder is a Navigator that remembers every navigation
type Recorder struct {
	Visits []Visit
}

// Visit is one recorded navigation
type Visit struct {
	To      Route
	Payload any
}

// Navigate records the navigation
func (r *Recorder) Navigate(to Route, payload any) {
	r.Visits = append(r.Visits, Visit{To: to, Payload: payload})
}

// Last returns the most recent navigation and whether there was one
func (r *Recorder) Last() (Visit, bool) {
	if len(r.Visits) == 0 {
		return Visit{}, false
	}
	return r.Visits[len(r.Visits)-1], true
}
