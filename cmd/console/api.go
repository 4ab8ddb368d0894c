package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jwebster45206/dreambound/pkg/state"
	"github.com/jwebster45206/dreambound/pkg/world"
)

// TurnResponse mirrors the API's turn envelope: the new journal lines
// plus the full state snapshot after the turn.
type TurnResponse struct {
	Logs  []state.LogEntry `json:"logs"`
	State *state.GameState `json:"state"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// postTurn sends a game action and decodes the turn envelope.
func postTurn(client *http.Client, baseURL, route string, reqBody any) (*TurnResponse, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/game/"+route,
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("%s", errorResp.Error)
	}

	var turn TurnResponse
	if err := json.Unmarshal(body, &turn); err != nil {
		return nil, fmt.Errorf("failed to parse turn response: %w", err)
	}
	return &turn, nil
}

func newGame(client *http.Client, baseURL, name, gender string) (*TurnResponse, error) {
	return postTurn(client, baseURL, "new", map[string]string{
		"name":   name,
		"gender": gender,
	})
}

func loadGame(client *http.Client, baseURL string) (*state.GameState, error) {
	resp, err := client.Post(baseURL+"/v1/game/load", "application/json", bytes.NewBufferString("{}"))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("%s", errorResp.Error)
	}

	var gs state.GameState
	if err := json.Unmarshal(body, &gs); err != nil {
		return nil, fmt.Errorf("failed to parse game state response: %w", err)
	}
	return &gs, nil
}

func getJournal(client *http.Client, baseURL string) ([]state.LogEntry, error) {
	resp, err := client.Get(baseURL + "/v1/game/journal")
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var logs []state.LogEntry
	if err := json.NewDecoder(resp.Body).Decode(&logs); err != nil {
		return nil, fmt.Errorf("failed to parse journal response: %w", err)
	}
	return logs, nil
}

func getActions(client *http.Client, baseURL string) ([]world.SpecialAction, error) {
	resp, err := client.Get(baseURL + "/v1/game/actions")
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var actions []world.SpecialAction
	if err := json.NewDecoder(resp.Body).Decode(&actions); err != nil {
		return nil, fmt.Errorf("failed to parse actions response: %w", err)
	}
	return actions, nil
}

func sendMove(client *http.Client, baseURL string, dx, dy int) (*TurnResponse, error) {
	return postTurn(client, baseURL, "move", map[string]int{"dx": dx, "dy": dy})
}

func sendAction(client *http.Client, baseURL, text string) (*TurnResponse, error) {
	return postTurn(client, baseURL, "action", map[string]string{"text": text})
}

func sendSpecial(client *http.Client, baseURL string, action world.SpecialAction) (*TurnResponse, error) {
	return postTurn(client, baseURL, "special", action)
}

func sendCombat(client *http.Client, baseURL, action string) (*TurnResponse, error) {
	return postTurn(client, baseURL, "combat", map[string]string{"action": action})
}

func sendSkill(client *http.Client, baseURL, skillID string) (*TurnResponse, error) {
	return postTurn(client, baseURL, "skill", map[string]string{"skill_id": skillID})
}

func sendUseItem(client *http.Client, baseURL, item string) (*TurnResponse, error) {
	return postTurn(client, baseURL, "item/use", map[string]string{"item": item})
}

func sendEquipItem(client *http.Client, baseURL, item, charID string) (*TurnResponse, error) {
	return postTurn(client, baseURL, "item/equip", map[string]string{
		"item":    item,
		"char_id": charID,
	})
}

func sendAppraise(client *http.Client, baseURL, item string) (*TurnResponse, error) {
	return postTurn(client, baseURL, "item/appraise", map[string]string{"item": item})
}

func sendRecruit(client *http.Client, baseURL string, accept bool) (*TurnResponse, error) {
	return postTurn(client, baseURL, "recruit", map[string]bool{"accept": accept})
}

func sendAbandonQuest(client *http.Client, baseURL, id string) (*TurnResponse, error) {
	return postTurn(client, baseURL, "quest/abandon", map[string]string{"id": id})
}

func sendFocusQuest(client *http.Client, baseURL, id string) (*TurnResponse, error) {
	return postTurn(client, baseURL, "quest/focus", map[string]string{"id": id})
}

func sendCancel(client *http.Client, baseURL string) error {
	resp, err := client.Post(baseURL+"/v1/game/cancel", "application/json", bytes.NewBufferString("{}"))
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}
	return nil
}
