// Package quest models the three quest tracks a run can carry: major story
// quests, minor side quests, and intuition quests that complete on their own
// as the player wanders.
package quest

// Kind distinguishes how a quest entered the log and how it resolves.
type Kind string

const (
	KindMajor     Kind = "MAJOR"
	KindMinor     Kind = "MINOR"
	KindIntuition Kind = "INTUITION"
)

// Status is a quest's lifecycle state. Transitions only move forward:
// Active quests become Completed or Failed, never Active again.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Criteria names the world event an intuition quest listens for.
type Criteria string

const (
	CriteriaExplore   Criteria = "EXPLORE"
	CriteriaFindTown  Criteria = "FIND_TOWN"
	CriteriaCombat    Criteria = "COMBAT"
	CriteriaRecruit   Criteria = "RECRUIT"
	CriteriaFindQuest Criteria = "FIND_QUEST"
)

// Rewards is paid out exactly once, when a quest transitions to Completed.
type Rewards struct {
	Gold     int      `json:"gold,omitempty"`
	XP       int      `json:"xp,omitempty"`
	Items    []string `json:"items,omitempty"`
	Prestige int      `json:"prestige,omitempty"`
}

type Quest struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Kind        Kind     `json:"type"`
	Status      Status   `json:"status"`
	Criteria    Criteria `json:"criteria,omitempty"`
	Progress    int      `json:"progress,omitempty"`
	Target      int      `json:"target,omitempty"`
	Rewards     Rewards  `json:"rewards"`
}

func (q Quest) IsActive() bool { return q.Status == StatusActive }

// Complete transitions the quest to Completed and reports whether the
// transition happened. Rewards are only due when it returns true; a quest
// already completed or failed yields false, which is what makes reward
// payout exactly-once.
func (q *Quest) Complete() bool {
	if q.Status != StatusActive {
		return false
	}
	q.Status = StatusCompleted
	return true
}

// Fail marks an active quest failed. Completed quests stay completed.
func (q *Quest) Fail() bool {
	if q.Status != StatusActive {
		return false
	}
	q.Status = StatusFailed
	return true
}

func (q Quest) Copy() Quest {
	out := q
	out.Rewards.Items = append([]string(nil), q.Rewards.Items...)
	return out
}
