package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/dreambound/internal/engine"
	"github.com/jwebster45206/dreambound/pkg/combat"
	"github.com/jwebster45206/dreambound/pkg/party"
	"github.com/jwebster45206/dreambound/pkg/state"
	"github.com/jwebster45206/dreambound/pkg/world"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// TurnResponse carries a turn's log lines plus the resulting state
// snapshot, so clients never need a second round trip after an action.
type TurnResponse struct {
	Logs  []state.LogEntry `json:"logs"`
	State *state.GameState `json:"state"`
}

type GameHandler struct {
	engine *engine.Engine
	logger *slog.Logger
}

func NewGameHandler(eng *engine.Engine, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		engine: eng,
		logger: logger,
	}
}

// ServeHTTP routes the game API.
// Routes:
// POST /v1/game/new            - Start a new game
// POST /v1/game/load           - Load the saved game
// GET  /v1/game/state          - Current state snapshot
// GET  /v1/game/journal        - Full session log
// GET  /v1/game/actions        - Deterministic actions for the tile
// POST /v1/game/move           - Walk one tile
// POST /v1/game/action         - Freeform narrated action
// POST /v1/game/special        - Execute a deterministic action
// POST /v1/game/combat         - One combat round
// POST /v1/game/skill          - Use a skill
// POST /v1/game/item/use       - Consume an item
// POST /v1/game/item/equip     - Equip a weapon or armor
// POST /v1/game/item/appraise  - Pay to identify an item
// POST /v1/game/shop           - Buy or sell
// POST /v1/game/recruit        - Accept or decline a pending companion
// POST /v1/game/quest/abandon  - Fail a quest by choice
// POST /v1/game/quest/focus    - Track a quest in the suggestion
// POST /v1/game/cancel         - Abandon the in-flight narration
func (h *GameHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	route := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/game"), "/")

	switch {
	case r.Method == http.MethodPost && route == "new":
		h.handleNew(w, r)
	case r.Method == http.MethodPost && route == "load":
		h.handleLoad(w, r)
	case r.Method == http.MethodGet && route == "state":
		h.handleState(w)
	case r.Method == http.MethodGet && route == "journal":
		h.writeJSON(w, http.StatusOK, h.engine.Journal())
	case r.Method == http.MethodGet && route == "actions":
		h.writeJSON(w, http.StatusOK, h.engine.SpecialActions())
	case r.Method == http.MethodPost && route == "move":
		h.handleMove(w, r)
	case r.Method == http.MethodPost && route == "action":
		h.handleAction(w, r)
	case r.Method == http.MethodPost && route == "special":
		h.handleSpecial(w, r)
	case r.Method == http.MethodPost && route == "combat":
		h.handleCombat(w, r)
	case r.Method == http.MethodPost && route == "skill":
		h.handleSkill(w, r)
	case r.Method == http.MethodPost && route == "item/use":
		h.handleUseItem(w, r)
	case r.Method == http.MethodPost && route == "item/equip":
		h.handleEquip(w, r)
	case r.Method == http.MethodPost && route == "item/appraise":
		h.handleAppraise(w, r)
	case r.Method == http.MethodPost && route == "shop":
		h.handleShop(w, r)
	case r.Method == http.MethodPost && route == "recruit":
		h.handleRecruit(w, r)
	case r.Method == http.MethodPost && route == "quest/abandon":
		h.handleQuest(w, r, h.engine.AbandonQuest)
	case r.Method == http.MethodPost && route == "quest/focus":
		h.handleQuest(w, r, h.engine.FocusQuest)
	case r.Method == http.MethodPost && route == "cancel":
		h.engine.Cancel()
		w.WriteHeader(http.StatusAccepted)
	default:
		h.writeError(w, http.StatusNotFound, "Unknown game route")
	}
}

func (h *GameHandler) handleNew(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string       `json:"name"`
		Gender party.Gender `json:"gender"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		h.writeError(w, http.StatusBadRequest, "Character name is required")
		return
	}
	logs, err := h.engine.NewGame(r.Context(), req.Name, req.Gender)
	h.writeTurn(w, logs, err)
}

func (h *GameHandler) handleLoad(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.LoadGame(r.Context()); err != nil {
		h.logger.Warn("Load game failed", "error", err)
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.handleState(w)
}

func (h *GameHandler) handleState(w http.ResponseWriter) {
	gs := h.engine.Snapshot()
	if gs == nil {
		h.writeError(w, http.StatusNotFound, "No active session")
		return
	}
	h.writeJSON(w, http.StatusOK, gs)
}

func (h *GameHandler) handleMove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DX int `json:"dx"`
		DY int `json:"dy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if abs(req.DX)+abs(req.DY) != 1 {
		h.writeError(w, http.StatusBadRequest, "Movement must be one tile along one axis")
		return
	}
	logs, err := h.engine.Move(r.Context(), req.DX, req.DY)
	h.writeTurn(w, logs, err)
}

func (h *GameHandler) handleAction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		h.writeError(w, http.StatusBadRequest, "Action text is required")
		return
	}
	logs, err := h.engine.FreeformAction(r.Context(), req.Text)
	h.writeTurn(w, logs, err)
}

func (h *GameHandler) handleSpecial(w http.ResponseWriter, r *http.Request) {
	var req world.SpecialAction
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	logs, err := h.engine.SpecialInteraction(r.Context(), req)
	h.writeTurn(w, logs, err)
}

func (h *GameHandler) handleCombat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action  combat.Action `json:"action"`
		SkillID string        `json:"skill_id,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Action == combat.ActionSkill || req.SkillID != "" {
		logs, err := h.engine.UseSkill(r.Context(), req.SkillID)
		h.writeTurn(w, logs, err)
		return
	}
	logs, err := h.engine.CombatAction(r.Context(), req.Action, nil)
	h.writeTurn(w, logs, err)
}

func (h *GameHandler) handleSkill(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SkillID string `json:"skill_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	logs, err := h.engine.UseSkill(r.Context(), req.SkillID)
	h.writeTurn(w, logs, err)
}

func (h *GameHandler) handleUseItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Item string `json:"item"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	logs, err := h.engine.UseItem(r.Context(), req.Item)
	h.writeTurn(w, logs, err)
}

func (h *GameHandler) handleEquip(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Item   string `json:"item"`
		CharID string `json:"char_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CharID == "" {
		req.CharID = "player"
	}
	logs, err := h.engine.EquipItem(r.Context(), req.Item, req.CharID)
	h.writeTurn(w, logs, err)
}

func (h *GameHandler) handleAppraise(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Item string `json:"item"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	logs, err := h.engine.AppraiseItem(r.Context(), req.Item)
	h.writeTurn(w, logs, err)
}

func (h *GameHandler) handleShop(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Direction engine.ShopDirection `json:"direction"`
		Item      string               `json:"item"`
		Value     int                  `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	logs, err := h.engine.ShopTransaction(r.Context(), req.Direction, req.Item, req.Value)
	h.writeTurn(w, logs, err)
}

func (h *GameHandler) handleRecruit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Accept bool `json:"accept"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	var logs []state.LogEntry
	var err error
	if req.Accept {
		logs, err = h.engine.ConfirmRecruit(r.Context())
	} else {
		logs, err = h.engine.DeclineRecruit(r.Context())
	}
	h.writeTurn(w, logs, err)
}

func (h *GameHandler) handleQuest(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id string) ([]state.LogEntry, error)) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ID == "" {
		h.writeError(w, http.StatusBadRequest, "Quest id is required")
		return
	}
	logs, err := op(r.Context(), req.ID)
	h.writeTurn(w, logs, err)
}

func (h *GameHandler) writeTurn(w http.ResponseWriter, logs []state.LogEntry, err error) {
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrCancelled):
			h.writeError(w, http.StatusConflict, "Action cancelled")
		case errors.Is(err, engine.ErrNoSession), errors.Is(err, engine.ErrBadStatus):
			h.writeError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("Game action failed", "error", err)
			h.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	h.writeJSON(w, http.StatusOK, TurnResponse{
		Logs:  logs,
		State: h.engine.Snapshot(),
	})
}

func (h *GameHandler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

func (h *GameHandler) writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		h.logger.Error("Failed to encode error response", "error", err)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
