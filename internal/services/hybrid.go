package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwebster45206/dreambound/pkg/content"
	"github.com/jwebster45206/dreambound/pkg/dice"
	"github.com/jwebster45206/dreambound/pkg/party"
	"github.com/jwebster45206/dreambound/pkg/state"
)

// The Roll* helpers implement hybrid content sourcing: a d20 bucket
// decides between the static stock tables (middle buckets) and a
// generator call (extreme buckets). Callers pass a FallbackGenerator
// so a failed generation degrades instead of erroring.

// uniqueItemRarity maps the generator buckets to the rarity tier the
// invented item is labeled with. Both failure buckets yield cursed
// items.
func uniqueItemRarity(b dice.Bucket) dice.Rarity {
	switch b {
	case dice.CriticalFailure, dice.NegativeUnique:
		return dice.RarityCursed
	case dice.PositiveUnique:
		return dice.RarityUncommon
	default:
		return dice.RarityRare
	}
}

// RollLoot produces one loot drop. Stock buckets pick a named item off
// the rarity table; generator buckets invent a unique item.
func RollLoot(ctx context.Context, gen Generator, roller *dice.Roller) (*state.ItemEntry, error) {
	_, bucket := roller.HybridRoll()
	policy := dice.PolicyFor(bucket)
	if policy.UseGenerator {
		return gen.GenerateUniqueItem(ctx, uniqueItemRarity(bucket), bucket)
	}

	desc := "A standard item."
	switch policy.TableRarity {
	case dice.RarityUncommon:
		desc = "Good quality."
	case dice.RarityRare:
		desc = "A rare find."
	}
	return &state.ItemEntry{
		ID:          "item_" + uuid.NewString(),
		Name:        content.StockItem(policy.TableRarity, roller.Intn),
		Description: desc,
		Rarity:      policy.TableRarity,
	}, nil
}

// RollEnemy produces one enemy scaled to the player's level.
func RollEnemy(ctx context.Context, gen Generator, playerLevel int, roller *dice.Roller) (*party.Enemy, error) {
	_, bucket := roller.HybridRoll()
	policy := dice.PolicyFor(bucket)
	if policy.UseGenerator {
		return gen.GenerateUniqueEnemy(ctx, playerLevel, bucket)
	}
	e := content.StockEnemy(policy.TableRarity, playerLevel, roller.Intn)
	return &e, nil
}

// RollClass produces a character class for game start or companions.
func RollClass(ctx context.Context, gen Generator, roller *dice.Roller) (*content.ClassTemplate, error) {
	_, bucket := roller.HybridRoll()
	policy := dice.PolicyFor(bucket)
	if policy.UseGenerator {
		return gen.GenerateUniqueClass(ctx, bucket)
	}
	tpls := content.ClassTemplates(policy.TableRarity)
	tpl := tpls[roller.Intn(len(tpls))]
	return &tpl, nil
}
