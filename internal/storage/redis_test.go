package storage

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/dreambound/pkg/state"
)

func setupTestRedis(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	store := NewRedisStorage(mr.Addr(), logger)
	return store, mr
}

func testGameState() *state.GameState {
	gs := state.NewGameState(func(n int) int { return 0 })
	gs.Player.Name = "Ava"
	gs.Status = state.StatusPlaying
	gs.Inventory = []string{"Torch", "Rope"}
	return gs
}

func TestRedisSaveAndLoad(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer store.Close()
	ctx := context.Background()

	gs := testGameState()
	require.NoError(t, store.SaveGame(ctx, "slot1", gs))

	loaded, err := store.LoadGame(ctx, "slot1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, gs.ID, loaded.ID)
	assert.Equal(t, "Ava", loaded.Player.Name)
	assert.Equal(t, []string{"Torch", "Rope"}, loaded.Inventory)
}

func TestRedisLoadEmptySlot(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer store.Close()

	loaded, err := store.LoadGame(context.Background(), "nothing-here")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStaleSaveRefused(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer store.Close()
	ctx := context.Background()

	gs := testGameState()
	gs.TurnCount = 10
	require.NoError(t, store.SaveGame(ctx, "slot1", gs))

	stale := gs.DeepCopy()
	stale.TurnCount = 5
	err := store.SaveGame(ctx, "slot1", stale)
	assert.ErrorIs(t, err, ErrStaleSave)

	// A different session may take over the slot at any turn count.
	other := testGameState()
	other.TurnCount = 1
	assert.NoError(t, store.SaveGame(ctx, "slot1", other))
}

func TestRedisCorruptSaveTreatedAsEmpty(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, mr.Set(saveKeyPrefix+"slot1", "{not json"))

	loaded, err := store.LoadGame(ctx, "slot1")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// And a new game can be saved over it.
	assert.NoError(t, store.SaveGame(ctx, "slot1", testGameState()))
}

func TestRedisLegacySuggestionMigration(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer store.Close()
	ctx := context.Background()

	gs := testGameState()
	gs.CurrentSuggestion = state.Suggestion{Text: "Look around"}
	require.NoError(t, store.SaveGame(ctx, "slot1", gs))

	// Rewrite the stored JSON with the old bare-string suggestion form.
	raw, err := mr.Get(saveKeyPrefix + "slot1")
	require.NoError(t, err)
	patched := strings.Replace(raw,
		`"current_suggestion":{"text":"Look around"}`,
		`"current_suggestion":"Look around"`, 1)
	require.NotEqual(t, raw, patched, "fixture must contain the suggestion object")
	require.NoError(t, mr.Set(saveKeyPrefix+"slot1", patched))

	loaded, err := store.LoadGame(ctx, "slot1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Look around", loaded.CurrentSuggestion.Text)
	assert.Empty(t, loaded.CurrentSuggestion.QuestID)
}

func TestRedisListAndDelete(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.SaveGame(ctx, "a", testGameState()))
	require.NoError(t, store.SaveGame(ctx, "b", testGameState()))

	slots, err := store.ListSlots(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, slots)

	require.NoError(t, store.DeleteGame(ctx, "a"))
	loaded, err := store.LoadGame(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
