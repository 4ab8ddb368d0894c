package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
	"google.golang.org/api/option"

	"github.com/jwebster45206/dreambound/pkg/content"
	"github.com/jwebster45206/dreambound/pkg/dice"
	"github.com/jwebster45206/dreambound/pkg/party"
	"github.com/jwebster45206/dreambound/pkg/quest"
	"github.com/jwebster45206/dreambound/pkg/state"
	"github.com/jwebster45206/dreambound/pkg/world"
)

const (
	DefaultPrimaryModel = "gemini-3-flash-preview"
	DefaultLiteModel    = "gemini-2.5-flash-lite"

	defaultMaxOutputTokens = 4000
	mapCellMaxOutputTokens = 1000
	quotaRetryDelay        = time.Second

	// historyWindow bounds how much session history is sent as prompt
	// context for routine calls.
	historyWindow = 5
)

const keyPlotQuestions = "Is this world real or a dream? If it is real, can I return to life before the dream or am I stuck here?"

const systemInstruction = `
You are the Game Master for an RPG.
This narrative world strongly emphasizes high magic, fantasy, and isekai.
Touches of mystery, spirituality, science, and technology are welcome as well.
Maintain narrative consistency with the provided history.
If player moves seem illegitimate, you are free to flatly declare the move is not allowed.
Description text values should be concise, between one and three sentences.

Recruitment Logic:
If the player attempts to recruit an NPC and the narrative supports it (e.g. they persuade them, pay them, or help them), set 'recruitTriggered' to true in your response schema and provide the name of the recruit.
`

const mapCellInstructions = systemInstruction + `
important rules for map cell / location metadata generation:
1. Ensure consistency with any travel directions mentioned in context.
2. Return JSON with name, description, type, biome, objects.
3. Each field must contain only its own value.
4. Do not include prefixes or headers like 'Objects:', 'Biome:', 'Description:'.
5. AVOID REPEATED FIELDS, PHRASES, AND SENTENCES.
6. No newline characters in any string value.
`

// GeminiGenerator implements Generator against the Gemini API. The
// primary model handles narrative-heavy calls, the lite model handles
// small structured generations. A quota error retries once on the lite
// model after a short pause.
type GeminiGenerator struct {
	client      *genai.Client
	primary     *genai.GenerativeModel
	lite        *genai.GenerativeModel
	primaryName string
	logger      *slog.Logger
}

func NewGeminiGenerator(ctx context.Context, apiKey, primaryModel, liteModel string, logger *slog.Logger) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if primaryModel == "" {
		primaryModel = DefaultPrimaryModel
	}
	if liteModel == "" {
		liteModel = DefaultLiteModel
	}
	g := &GeminiGenerator{
		client:      client,
		primary:     client.GenerativeModel(primaryModel),
		lite:        client.GenerativeModel(liteModel),
		primaryName: primaryModel,
		logger:      logger,
	}
	for _, m := range []*genai.GenerativeModel{g.primary, g.lite} {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemInstruction)}}
		m.SetMaxOutputTokens(defaultMaxOutputTokens)
		m.SetCandidateCount(1)
	}
	return g, nil
}

func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

// generate runs one model call and returns the raw response text. Quota
// errors get a single retry on the lite model after a one second pause.
func (g *GeminiGenerator) generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		if !isQuotaError(err) || model == g.lite {
			return "", fmt.Errorf("gemini request failed: %w", err)
		}
		g.logger.Warn("Quota limit hit, retrying on lite model", "error", err)
		select {
		case <-time.After(quotaRetryDelay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
		resp, err = g.lite.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return "", fmt.Errorf("gemini retry failed: %w", err)
		}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no content")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response part type %T", resp.Candidates[0].Content.Parts[0])
	}
	return string(text), nil
}

// generateJSON runs a model call that must yield JSON matching out's
// shape. A schema derived from out is appended to the prompt so the
// model sees the expected fields.
func (g *GeminiGenerator) generateJSON(ctx context.Context, model *genai.GenerativeModel, prompt string, out any) error {
	prompt = prompt + "\n\nRespond with a single JSON object matching this schema:\n" + schemaHint(out)
	text, err := g.generate(ctx, model, prompt)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(cleanJSON(text)), out); err != nil {
		return fmt.Errorf("failed to parse gemini response: %w", err)
	}
	return nil
}

func isQuotaError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "exceeded")
}

// cleanJSON strips markdown code fences the model sometimes wraps
// around JSON output.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

var schemaReflector = jsonschema.Reflector{
	DoNotReference: true,
	Anonymous:      true,
}

func schemaHint(v any) string {
	s := schemaReflector.Reflect(v)
	s.Version = ""
	data, err := json.Marshal(s)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func historyContext(history []string, n int) string {
	if len(history) > n {
		history = history[len(history)-n:]
	}
	return strings.Join(history, " ")
}

func (g *GeminiGenerator) StartNewGame(ctx context.Context, name string, gender party.Gender, class content.ClassTemplate) (*state.ActionResponse, error) {
	prompt := fmt.Sprintf("Start game. Name: %s, Gender: %s. Class: %s (%s). Loc: 0,0. Include initial narrative relevant to class.",
		name, gender, class.Name, class.Description)
	var data state.ActionResolution
	if err := g.generateJSON(ctx, g.primary, prompt, &data); err != nil {
		return nil, err
	}
	resp := &state.ActionResponse{
		Narrative:       data.Narrative,
		LocationName:    data.LocationName,
		SuggestedAction: data.SuggestedAction,
	}
	if data.HPChangePlayer != 0 {
		resp.Updates.HPUpdates = []state.HPUpdate{{CharID: "player", Change: data.HPChangePlayer}}
	}
	return resp, nil
}

func (g *GeminiGenerator) NarrateMovement(ctx context.Context, cell world.Cell, history []string) (*state.MovementNarrative, error) {
	prompt := fmt.Sprintf(`Context: %s

Arrived at %s. Desc: %s. Type: %s.
Write a short narrative segment describing the arrival, connecting to recent events if relevant.`,
		historyContext(history, historyWindow), cell.Name, cell.Description, cell.Type)
	var out state.MovementNarrative
	if err := g.generateJSON(ctx, g.lite, prompt, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *GeminiGenerator) NarrateInteraction(ctx context.Context, action string, history []string) (string, error) {
	prompt := fmt.Sprintf(`Context: %s

Narrate this action outcome: %q.
Keep it brief and atmospheric.`, historyContext(history, historyWindow), action)
	return g.generate(ctx, g.primary, prompt)
}

func (g *GeminiGenerator) ResolveAction(ctx context.Context, action string, gs *state.GameState) (*state.ActionResolution, error) {
	locName := ""
	if cell := gs.CurrentCell(); cell != nil {
		locName = cell.Name
	}
	prompt := fmt.Sprintf(`Context: %s

Loc: %s.
Action: %q.
Resolve the action.
If the player finds loot, set lootFound=true.
If a new quest should be triggered, set newQuestTriggered=true.
If the action is a persuasion/recruitment attempt and logically succeeds, set recruitTriggered=true.
Return JSON.`, historyContext(gs.History, historyWindow), locName, action)
	var out state.ActionResolution
	if err := g.generateJSON(ctx, g.primary, prompt, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// mapCellPayload is the model-facing shape of a generated cell; objects
// arrive without ids or interaction state.
type mapCellPayload struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Type        world.CellType `json:"type"`
	Biome       string         `json:"biome"`
	Objects     []struct {
		Name        string           `json:"name"`
		Type        world.ObjectType `json:"type"`
		Description string           `json:"description"`
	} `json:"objects"`
}

func (g *GeminiGenerator) GenerateMapCell(ctx context.Context, x, y, playerLevel int, history []string) (*world.Cell, error) {
	roll := dice.NewRoller()
	d20 := roll.D20()
	cellType := world.CellWilderness
	flavor := "Standard wilderness (Forest, Plains, Desert, etc)"
	switch {
	case d20 == 1:
		flavor = "HIGHLY_DANGEROUS (trapped, corrupted, dangerous, poisoned...)"
	case d20 <= 4:
		cellType = world.CellDungeon
		flavor = "DUNGEON (ruins, cave, or structure)"
	case d20 <= 17:
		// standard wilderness
	case d20 <= 19:
		cellType = world.CellTown
		flavor = "Small settlement / town / village"
	default:
		cellType = world.CellTown
		flavor = "MAJOR_CITY (Large, bustling, fortified)"
	}

	objectCount := roll.D6() / 2
	if strings.HasPrefix(flavor, "MAJOR_CITY") {
		objectCount += 2
	}

	prompt := fmt.Sprintf(`Context: %s

Generate a new map location at %d, %d. Lvl: %d.

Location Configuration:
1. schemaType: %s
2. Atmosphere/Theme: %s
3. Interactable Objects: Generate exactly %d notable objects.
   - Provide a 'description' for each object (e.g. what it looks like, why it's there).`,
		historyContext(history, historyWindow), x, y, playerLevel, cellType, flavor, objectCount)

	model := g.client.GenerativeModel(g.primaryName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(mapCellInstructions)}}
	model.SetMaxOutputTokens(mapCellMaxOutputTokens)
	model.SetCandidateCount(1)

	var data mapCellPayload
	if err := g.generateJSON(ctx, model, prompt, &data); err != nil {
		return nil, err
	}

	cell := &world.Cell{
		X:           x,
		Y:           y,
		Name:        data.Name,
		Description: data.Description,
		Type:        data.Type,
		Biome:       data.Biome,
		Visited:     true,
	}
	if cell.Name == "" {
		cell.Name = "Uncharted Territory"
	}
	if cell.Description == "" {
		cell.Description = "The environment here is hazy and indistinct, as if the dream has not fully formed."
	}
	if cell.Type == "" {
		cell.Type = cellType
	}
	for _, obj := range data.Objects {
		desc := obj.Description
		if desc == "" {
			desc = "A notable object."
		}
		cell.Objects = append(cell.Objects, world.Object{
			ID:          "obj_" + uuid.NewString(),
			Name:        obj.Name,
			Type:        obj.Type,
			Description: desc,
			IsDetailed:  true,
		})
	}
	return cell, nil
}

func (g *GeminiGenerator) ObjectDetails(ctx context.Context, name string, objType world.ObjectType, locationContext string) (string, error) {
	prompt := fmt.Sprintf(`Describe the object %q (Type: %s) found in %s.
Keep it brief (under 2 sentences).`, name, objType, locationContext)
	var out struct {
		Description string `json:"description"`
	}
	if err := g.generateJSON(ctx, g.lite, prompt, &out); err != nil {
		return "", err
	}
	return out.Description, nil
}

func (g *GeminiGenerator) GenerateUniqueItem(ctx context.Context, rarity dice.Rarity, bucket dice.Bucket) (*state.ItemEntry, error) {
	var flavor string
	switch bucket {
	case dice.CriticalFailure:
		flavor = "This item is terribly cursed or fundamentally broken."
	case dice.NegativeUnique:
		flavor = "This item has a strange negative quirk or minor curse."
	case dice.PositiveUnique:
		flavor = "This item has an interesting, beneficial quirk."
	case dice.CriticalSuccess:
		flavor = "This item is powerful and legendary."
	}
	prompt := fmt.Sprintf("Generate a %s unique RPG item. Context: %s. Name, Description.", rarity, flavor)
	var data struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := g.generateJSON(ctx, g.lite, prompt, &data); err != nil {
		return nil, err
	}
	return &state.ItemEntry{
		ID:          "item_" + uuid.NewString(),
		Name:        data.Name,
		Description: data.Description,
		Rarity:      rarity,
	}, nil
}

func (g *GeminiGenerator) AppraiseItem(ctx context.Context, itemName string) (*state.ItemEntry, error) {
	prompt := fmt.Sprintf(`Appraise the item %q.
Identify its true nature, category, value, and properties.
Categories: WEAPON, ARMOR, CONSUMABLE, SPECIAL, JUNK, TREASURE, MATERIAL, QUEST.
Tags: equippable, consumable, alchemical, craft component, dismantleable, prize, junk.
If it's a Weapon or Armor, provide 'stats' (atk or def, 1-10 scale).
If it's a Book or Tome, it may be a CONSUMABLE that grants knowledge/XP.
Return JSON.`, itemName)
	var data state.ItemEntry
	if err := g.generateJSON(ctx, g.lite, prompt, &data); err != nil {
		return nil, err
	}
	switch data.Category {
	case "WEAPON", "ARMOR", "CONSUMABLE", "SPECIAL", "JUNK", "TREASURE", "MATERIAL", "QUEST":
	default:
		data.Category = "SPECIAL"
	}
	data.ID = "item_appraised_" + uuid.NewString()
	data.Name = itemName
	return &data, nil
}

// classPayload matches the class schema the model fills for both class
// and companion generation.
type classPayload struct {
	Name        string `json:"name"`
	Class       string `json:"class,omitempty"`
	Description string `json:"description"`
	Stats       struct {
		Atk int `json:"atk"`
		Def int `json:"def"`
		HP  int `json:"hp"`
	} `json:"stats"`
}

func (g *GeminiGenerator) GenerateUniqueClass(ctx context.Context, bucket dice.Bucket) (*content.ClassTemplate, error) {
	var prompt string
	switch bucket {
	case dice.CriticalFailure:
		prompt = "Generate a 'Custom Weak' RPG class. Flawed, terrible stats (low atk/def/hp), weird description."
	case dice.NegativeUnique:
		prompt = "Generate a 'Negative Unique' RPG class. It has a downside or curse, but is playable. Mundane power level."
	case dice.PositiveUnique:
		prompt = "Generate an 'Uncommon Unique' RPG class. Interesting mechanic, average stats."
	default:
		prompt = "Generate a 'Rare Unique' RPG class. Powerful stats, epic description."
	}
	var data classPayload
	if err := g.generateJSON(ctx, g.lite, prompt, &data); err != nil {
		return nil, err
	}
	return &content.ClassTemplate{
		Name:        data.Name,
		Description: data.Description,
		Stats: content.ClassStats{
			Atk: data.Stats.Atk,
			Def: data.Stats.Def,
			HP:  data.Stats.HP,
		},
	}, nil
}

func (g *GeminiGenerator) GenerateCompanion(ctx context.Context, name string, playerLevel int, originID string) (*party.Character, error) {
	prompt := fmt.Sprintf("Generate a companion character named %q around level %d. Choose a class and appropriate stats.", name, playerLevel)
	var data classPayload
	if err := g.generateJSON(ctx, g.lite, prompt, &data); err != nil {
		return nil, err
	}

	// The model returns base stats; scale loosely by level.
	hp := data.Stats.HP + playerLevel*3
	atk := data.Stats.Atk + playerLevel*4/5
	def := data.Stats.Def + playerLevel/2

	c := &party.Character{
		ID:        "char_" + uuid.NewString(),
		Name:      name,
		Class:     data.Class,
		Backstory: data.Description,
		HP:        hp,
		MaxHP:     hp,
		EP:        10 + playerLevel,
		MaxEP:     10 + playerLevel,
		Level:     playerLevel,
		Atk:       atk,
		Def:       def,
		OriginID:  originID,
	}
	if data.Name != "" {
		c.Name = data.Name
	}
	if c.Class == "" {
		c.Class = "Adventurer"
	}
	return c, nil
}

func (g *GeminiGenerator) GenerateQuest(ctx context.Context, narrativeContext string) (*quest.Quest, error) {
	prompt := fmt.Sprintf("Based on context: %s, generate a new quest. Return JSON.", narrativeContext)
	var data struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Type        quest.Kind `json:"type"`
		Rewards     struct {
			Gold  int      `json:"gold"`
			XP    int      `json:"xp"`
			Items []string `json:"items"`
		} `json:"rewards"`
	}
	if err := g.generateJSON(ctx, g.lite, prompt, &data); err != nil {
		return nil, err
	}
	return &quest.Quest{
		Title:       data.Title,
		Description: data.Description,
		Kind:        data.Type,
		Status:      quest.StatusActive,
		Rewards: quest.Rewards{
			Gold:  data.Rewards.Gold,
			XP:    data.Rewards.XP,
			Items: data.Rewards.Items,
		},
	}, nil
}

func (g *GeminiGenerator) GenerateUniqueEnemy(ctx context.Context, playerLevel int, bucket dice.Bucket) (*party.Enemy, error) {
	var prompt string
	rarity := dice.RarityUnique
	switch bucket {
	case dice.CriticalFailure:
		prompt = fmt.Sprintf("Generate a 'Weak Glitch' RPG enemy for Level %d. The result of a critical failure. Pathetic stats, weird description.", playerLevel)
		rarity = dice.RarityGlitch
	case dice.NegativeUnique:
		prompt = fmt.Sprintf("Generate a 'Negative Unique' RPG enemy for Level %d. A mundane threat with a twist or annoyance. Stats balanced for Lvl %d.", playerLevel, playerLevel)
	case dice.PositiveUnique:
		prompt = fmt.Sprintf("Generate an 'Uncommon Unique' RPG enemy for Level %d. Interesting mechanics. Stats balanced for Lvl %d.", playerLevel, playerLevel)
	default:
		prompt = fmt.Sprintf("Generate a 'Rare Unique' RPG boss/enemy for Level %d. Powerful stats, epic visual.", playerLevel)
	}
	var data struct {
		Name        string `json:"name"`
		Class       string `json:"class"`
		MaxHP       int    `json:"maxHp"`
		Atk         int    `json:"atk"`
		Def         int    `json:"def"`
		Description string `json:"description"`
		XPValue     int    `json:"xpValue"`
	}
	if err := g.generateJSON(ctx, g.lite, prompt, &data); err != nil {
		return nil, err
	}
	if data.MaxHP < 1 {
		return nil, fmt.Errorf("invalid HP from model: %d", data.MaxHP)
	}
	return &party.Enemy{
		Character: party.Character{
			ID:    "enemy_" + uuid.NewString(),
			Name:  data.Name,
			Class: data.Class,
			HP:    data.MaxHP,
			MaxHP: data.MaxHP,
			EP:    10,
			MaxEP: 10,
			Level: playerLevel,
			Atk:   data.Atk,
			Def:   data.Def,
		},
		Description: data.Description,
		XPValue:     data.XPValue,
		Rarity:      rarity,
	}, nil
}

func (g *GeminiGenerator) IdentifyItemAction(ctx context.Context, item, itemContext string) (*state.ItemActionResponse, error) {
	if itemContext == "" {
		itemContext = "None"
	}
	prompt := fmt.Sprintf("Use item: %q. Context: %s. Determine stats/effect. If the item is designed to capture entities (e.g. Spiritbinder) and context involves combat, return type 'CAPTURE'. If it grants XP/Knowledge (like a Tome), return type 'CONSUMABLE' and set xpChange > 0. Standard healing items (potions, food) should ONLY restore HP (hpChange > 0) and NOT grant XP.", item, itemContext)
	var out state.ItemActionResponse
	if err := g.generateJSON(ctx, g.primary, prompt, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *GeminiGenerator) CombatNarrative(ctx context.Context, logs []string) (string, error) {
	prompt := fmt.Sprintf(`Summarize combat log:
%s

Create a 2-sentence exciting narrative summary.`, strings.Join(logs, "\n"))
	return g.generate(ctx, g.lite, prompt)
}

func (g *GeminiGenerator) QuestOutcome(ctx context.Context, questTitle, action string, success bool, history []string) (*state.QuestOutcomeResponse, error) {
	outcome := "FAILURE"
	if success {
		outcome = "SUCCESS"
	}
	prompt := fmt.Sprintf(`Quest: %s
Action: %s
Outcome: %s
Context: %s

Write a short narrative (2 sentences). If failure, suggest mild damage (1-5).`,
		questTitle, action, outcome, historyContext(history, 3))
	var out state.QuestOutcomeResponse
	if err := g.generateJSON(ctx, g.lite, prompt, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *GeminiGenerator) GenerateEnding(ctx context.Context, history []string) (string, error) {
	prompt := fmt.Sprintf(`Context: %s
Key Questions: %s

Write the ENDING of this story. Reveal the truth about the dream world.
Was it a coma? A simulation? Purgatory?
Make it emotional and final. (Max 300 words).`,
		historyContext(history, 20), keyPlotQuestions)
	var out struct {
		Narrative string `json:"narrative"`
	}
	if err := g.generateJSON(ctx, g.primary, prompt, &out); err != nil {
		return "", err
	}
	return out.Narrative, nil
}
