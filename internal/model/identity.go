package model

import "reflect"

// Identity is the authenticated user's profile as reported by the server
type Identity struct {
	UserID               int64          `json:"userId"`
	Username             string         `json:"username"`
	Rating               int            `json:"rating"`
	Level                int            `json:"level"`
	Title                string         `json:"title"`
	Stats                map[string]int `json:"stats,omitempty"`
	Traits               []string       `json:"traits"`
	TotalQuestionsSolved int            `json:"totalQuestionsSolved"`
	TotalContests        int            `json:"totalContests"`
	SuccessfulContests   int            `json:"successfulContests"`
	ActiveContestID      *ContestID     `json:"activeContestId"`
}

// Equal reports whether two identities carry the same values.
// A nil identity only equals another nil identity.
func (i *Identity) Equal(other *Identity) bool {
	if i == nil || other == nil {
		return i == other
	}
	return reflect.DeepEqual(i, other)
}

// Clone returns a deep copy so callers cannot mutate the store's copy
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	if i.Stats != nil {
		c.Stats = make(map[string]int, len(i.Stats))
		for k, v := range i.Stats {
			c.Stats[k] = v
		}
	}
	if i.Traits != nil {
		c.Traits = append([]string(nil), i.Traits...)
	}
	if i.ActiveContestID != nil {
		id := *i.ActiveContestID
		c.ActiveContestID = &id
	}
	return &c
}
