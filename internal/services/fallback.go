package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jwebster45206/dreambound/pkg/content"
	"github.com/jwebster45206/dreambound/pkg/dice"
	"github.com/jwebster45206/dreambound/pkg/party"
	"github.com/jwebster45206/dreambound/pkg/quest"
	"github.com/jwebster45206/dreambound/pkg/state"
	"github.com/jwebster45206/dreambound/pkg/textfilter"
	"github.com/jwebster45206/dreambound/pkg/world"
)

// FallbackGenerator wraps a Generator and degrades to canned "glitch"
// payloads when the backend errors, so a dead or rate-limited model
// never stops the session. Every recovery is logged with the caller
// name for diagnosis. Successful narration is run through the text
// filter before it reaches the journal.
type FallbackGenerator struct {
	inner  Generator
	roller *dice.Roller
	filter *textfilter.NarrativeFilter
	logger *slog.Logger
}

func NewFallbackGenerator(inner Generator, logger *slog.Logger) *FallbackGenerator {
	return &FallbackGenerator{
		inner:  inner,
		roller: dice.NewRoller(),
		filter: textfilter.NewNarrativeFilter(),
		logger: logger,
	}
}

func (f *FallbackGenerator) recover(caller string, err error) {
	msg := err.Error()
	if len(msg) > 500 {
		msg = msg[:500] + "...(truncated)"
	}
	f.logger.Error("Recovering from generation error with fallback data",
		"caller", caller,
		"error", msg)
}

func (f *FallbackGenerator) StartNewGame(ctx context.Context, name string, gender party.Gender, class content.ClassTemplate) (*state.ActionResponse, error) {
	resp, err := f.inner.StartNewGame(ctx, name, gender, class)
	if err != nil {
		f.recover("StartNewGame", err)
		return &state.ActionResponse{
			Narrative:       "You awaken in a silent void. The dream seems fragile, as if the connection to the world is weak. (Offline/Glitch Mode Active)",
			LocationName:    "Silent Void",
			SuggestedAction: "Wait for clarity",
		}, nil
	}
	resp.Narrative = f.filter.Clean(resp.Narrative)
	return resp, nil
}

func (f *FallbackGenerator) NarrateMovement(ctx context.Context, cell world.Cell, history []string) (*state.MovementNarrative, error) {
	out, err := f.inner.NarrateMovement(ctx, cell, history)
	if err != nil {
		f.recover("NarrateMovement", err)
		return &state.MovementNarrative{
			Narrative:       fmt.Sprintf("You step into %s. The environment flickers.", cell.Name),
			SuggestedAction: "Look around",
		}, nil
	}
	out.Narrative = f.filter.Clean(out.Narrative)
	return out, nil
}

func (f *FallbackGenerator) NarrateInteraction(ctx context.Context, action string, history []string) (string, error) {
	out, err := f.inner.NarrateInteraction(ctx, action, history)
	if err != nil {
		f.recover("NarrateInteraction", err)
		return action, nil
	}
	return f.filter.Clean(out), nil
}

func (f *FallbackGenerator) ResolveAction(ctx context.Context, action string, gs *state.GameState) (*state.ActionResolution, error) {
	out, err := f.inner.ResolveAction(ctx, action, gs)
	if err != nil {
		f.recover("ResolveAction", err)
		return &state.ActionResolution{
			Narrative: "You try to act, but the dream resists your influence. (AI Connection Unstable)",
		}, nil
	}
	out.Narrative = f.filter.Clean(out.Narrative)
	return out, nil
}

func (f *FallbackGenerator) GenerateMapCell(ctx context.Context, x, y, playerLevel int, history []string) (*world.Cell, error) {
	cell, err := f.inner.GenerateMapCell(ctx, x, y, playerLevel, history)
	if err != nil {
		f.recover("GenerateMapCell", err)
		return &world.Cell{
			X:           x,
			Y:           y,
			Name:        "Unstable Reality",
			Description: "The dreamscape is destabilizing here. Static fills the air.",
			Type:        world.CellWilderness,
			Biome:       "Glitch Landscape",
			Visited:     true,
		}, nil
	}
	return cell, nil
}

func (f *FallbackGenerator) ObjectDetails(ctx context.Context, name string, objType world.ObjectType, locationContext string) (string, error) {
	out, err := f.inner.ObjectDetails(ctx, name, objType, locationContext)
	if err != nil {
		f.recover("ObjectDetails", err)
		return "A generic object.", nil
	}
	return f.filter.Clean(out), nil
}

func (f *FallbackGenerator) GenerateUniqueItem(ctx context.Context, rarity dice.Rarity, bucket dice.Bucket) (*state.ItemEntry, error) {
	item, err := f.inner.GenerateUniqueItem(ctx, rarity, bucket)
	if err != nil {
		f.recover("GenerateUniqueItem", err)
		return &state.ItemEntry{
			ID:          "item_glitch_" + uuid.NewString(),
			Name:        fmt.Sprintf("Glitched %s Item", rarity),
			Description: "The item flickers in and out of existence.",
			Rarity:      rarity,
		}, nil
	}
	return item, nil
}

func (f *FallbackGenerator) AppraiseItem(ctx context.Context, itemName string) (*state.ItemEntry, error) {
	item, err := f.inner.AppraiseItem(ctx, itemName)
	if err != nil {
		f.recover("AppraiseItem", err)
		return &state.ItemEntry{
			ID:          "item_fail_" + uuid.NewString(),
			Name:        itemName,
			Description: "The item defies analysis.",
			Rarity:      dice.RarityCommon,
			Category:    "JUNK",
			Value:       1,
		}, nil
	}
	return item, nil
}

func (f *FallbackGenerator) GenerateUniqueClass(ctx context.Context, bucket dice.Bucket) (*content.ClassTemplate, error) {
	class, err := f.inner.GenerateUniqueClass(ctx, bucket)
	if err != nil {
		f.recover("GenerateUniqueClass", err)
		return &content.ClassTemplate{
			Name:        "Glitch Walker",
			Description: "A class born from a system error. Unpredictable.",
			Stats:       content.ClassStats{Atk: 2, Def: 2, HP: 5},
		}, nil
	}
	return class, nil
}

func (f *FallbackGenerator) GenerateCompanion(ctx context.Context, name string, playerLevel int, originID string) (*party.Character, error) {
	c, err := f.inner.GenerateCompanion(ctx, name, playerLevel, originID)
	if err != nil {
		f.recover("GenerateCompanion", err)
		return &party.Character{
			ID:       "char_fallback_" + uuid.NewString(),
			Name:     name,
			Class:    "Survivor",
			HP:       10,
			MaxHP:    10,
			EP:       10,
			MaxEP:    10,
			Level:    1,
			Atk:      2,
			Def:      1,
			OriginID: originID,
		}, nil
	}
	return c, nil
}

func (f *FallbackGenerator) GenerateQuest(ctx context.Context, narrativeContext string) (*quest.Quest, error) {
	q, err := f.inner.GenerateQuest(ctx, narrativeContext)
	if err != nil {
		f.recover("GenerateQuest", err)
		return &quest.Quest{
			Title:       "Mystery Quest",
			Description: "Something mysterious happened.",
			Kind:        quest.KindMinor,
			Status:      quest.StatusActive,
			Rewards:     quest.Rewards{XP: 50},
		}, nil
	}
	return q, nil
}

func (f *FallbackGenerator) GenerateUniqueEnemy(ctx context.Context, playerLevel int, bucket dice.Bucket) (*party.Enemy, error) {
	e, err := f.inner.GenerateUniqueEnemy(ctx, playerLevel, bucket)
	if err != nil {
		f.recover("GenerateUniqueEnemy", err)
		// Substitute a distorted stock enemy of the bucket's fallback tier.
		policy := dice.PolicyFor(bucket)
		stock := content.StockEnemy(policy.Fallback, playerLevel, f.roller.Intn)
		stock.Description = fmt.Sprintf("The mist clears, revealing a %s, though it seems slightly distorted.", stock.Name)
		stock.Name = stock.Name + " (Illusion)"
		if bucket == dice.CriticalFailure {
			stock.Rarity = dice.RarityGlitch
		} else {
			stock.Rarity = dice.RarityUnique
		}
		return &stock, nil
	}
	return e, nil
}

func (f *FallbackGenerator) IdentifyItemAction(ctx context.Context, item, itemContext string) (*state.ItemActionResponse, error) {
	out, err := f.inner.IdentifyItemAction(ctx, item, itemContext)
	if err != nil {
		f.recover("IdentifyItemAction", err)
		return &state.ItemActionResponse{
			Type:      state.ItemActionFlavor,
			Narrative: fmt.Sprintf("You use the %s, but nothing happens. The object feels insubstantial.", item),
		}, nil
	}
	out.Narrative = f.filter.Clean(out.Narrative)
	return out, nil
}

func (f *FallbackGenerator) CombatNarrative(ctx context.Context, logs []string) (string, error) {
	out, err := f.inner.CombatNarrative(ctx, logs)
	if err != nil {
		f.recover("CombatNarrative", err)
		return "The battle rages on, a blur of motion and steel.", nil
	}
	return f.filter.Clean(out), nil
}

func (f *FallbackGenerator) QuestOutcome(ctx context.Context, questTitle, action string, success bool, history []string) (*state.QuestOutcomeResponse, error) {
	out, err := f.inner.QuestOutcome(ctx, questTitle, action, success, history)
	if err != nil {
		f.recover("QuestOutcome", err)
		if success {
			return &state.QuestOutcomeResponse{Narrative: "You succeed against all odds."}, nil
		}
		return &state.QuestOutcomeResponse{Narrative: "You fail, and the backlash hurts.", Damage: 2}, nil
	}
	out.Narrative = f.filter.Clean(out.Narrative)
	return out, nil
}

func (f *FallbackGenerator) GenerateEnding(ctx context.Context, history []string) (string, error) {
	out, err := f.inner.GenerateEnding(ctx, history)
	if err != nil {
		f.recover("GenerateEnding", err)
		return "The dream fades, and you wake up... or do you?", nil
	}
	return f.filter.Clean(out), nil
}
