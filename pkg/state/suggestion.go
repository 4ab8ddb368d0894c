package state

import "encoding/json"

// Suggestion is the hinted next move shown to the player. QuestID, when
// set, pins the hint to a quest so a freeform attempt at it can gamble on
// quest progress.
type Suggestion struct {
	Text    string `json:"text"`
	QuestID string `json:"quest_id,omitempty"`
}

// UnmarshalJSON accepts both the current object form and the bare string
// older saves used.
func (s *Suggestion) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		s.Text = text
		s.QuestID = ""
		return nil
	}
	type plain Suggestion
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Suggestion(p)
	return nil
}
