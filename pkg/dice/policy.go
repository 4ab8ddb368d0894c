package dice

// GenerationPolicy tells a content generator how to source content for a
// hybrid roll bucket: the three middle buckets pull from static stock
// tables, the four extreme buckets go to the external generator with a
// static rarity to fall back on if generation fails.
type GenerationPolicy struct {
	UseGenerator bool
	TableRarity  Rarity // rarity tier of the stock table pick, when UseGenerator is false
	Fallback     Rarity // stock tier substituted when a generator call fails
}

// PolicyFor returns the shared sourcing policy for a bucket. Item, enemy
// and class generation all branch on this one mapping.
func PolicyFor(b Bucket) GenerationPolicy {
	switch b {
	case Common:
		return GenerationPolicy{TableRarity: RarityCommon, Fallback: RarityCommon}
	case Uncommon:
		return GenerationPolicy{TableRarity: RarityUncommon, Fallback: RarityUncommon}
	case Rare:
		return GenerationPolicy{TableRarity: RarityRare, Fallback: RarityRare}
	case CriticalFailure, NegativeUnique:
		return GenerationPolicy{UseGenerator: true, Fallback: RarityCommon}
	case PositiveUnique:
		return GenerationPolicy{UseGenerator: true, Fallback: RarityUncommon}
	default: // CriticalSuccess
		return GenerationPolicy{UseGenerator: true, Fallback: RarityRare}
	}
}
