package storage

import (
	"context"
	"errors"

	"github.com/jwebster45206/dreambound/pkg/state"
)

// ErrStaleSave is returned when a save would overwrite a further-progressed
// save of the same session. The guard protects against a stale browser tab
// or a replayed request clobbering real progress.
var ErrStaleSave = errors.New("save is older than the stored one")

// Storage persists save-games by slot name.
type Storage interface {
	// SaveGame stores the state under slot. It fails with ErrStaleSave if
	// the slot already holds the same session at a higher turn count.
	SaveGame(ctx context.Context, slot string, gs *state.GameState) error

	// LoadGame returns the save in slot, or nil when the slot is empty.
	// A corrupt save is treated as empty.
	LoadGame(ctx context.Context, slot string) (*state.GameState, error)

	// DeleteGame clears a slot.
	DeleteGame(ctx context.Context, slot string) error

	// ListSlots names the occupied save slots.
	ListSlots(ctx context.Context) ([]string, error)

	Ping(ctx context.Context) error
	Close() error
}
