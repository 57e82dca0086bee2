package oracle

import (
	"fmt"
	"strings"

	"github.com/aibotsim/arena/models"
)

// Few-shot examples teaching the generator the expected output shape:
// a quasi-JSON object with a numbered narrative under "resulttext" and the
// winning bot's id under "winner".
const fewShotExamples = `You are the arena announcer for a robot battle simulator. Two bots fight
until one is disabled. Narrate the battle as numbered steps, then declare the
winner. Answer with a JSON object holding "resulttext" and "winner" (the
winning bot's id). Example battles:

Bot 1: Ironclad (id 3)
Battle capability: titanium plating, hydraulic crusher arm, flame vents
Bot 2: Whisper (id 7)
Battle capability: carbon-fiber frame, twin saw blades, smoke screen
{"resulttext": "1. Whisper opens with a smoke screen and circles wide. 2. Ironclad vents flame, burning the smoke away. 3. Whisper's saws glance off the titanium plating. 4. Ironclad catches the carbon frame in its crusher arm and folds it in half.", "winner": "3"}

Bot 1: Gale (id 12)
Battle capability: ducted fans, electrified net launcher, lightweight hull
Bot 2: Bastion (id 5)
Battle capability: reactive armor, siege hammer, anchor spikes
{"resulttext": "1. Bastion plants its anchor spikes and waits. 2. Gale strafes on its fans, launching the electrified net. 3. The net shorts against the reactive armor and falls away. 4. Bastion's hammer clips a fan duct and Gale spins out of control into the wall.", "winner": "5"}

Now narrate this battle:

`

// BuildPrompt assembles the full prompt for a live matchup: the fixed
// few-shot examples followed by both bots' name and capability text.
func BuildPrompt(team1, team2 *models.Bot) string {
	var b strings.Builder
	b.WriteString(fewShotExamples)
	fmt.Fprintf(&b, "Bot 1: %s (id %s)\n", team1.Name, team1.BotID)
	fmt.Fprintf(&b, "Battle capability: %s\n", team1.BattleCapability)
	fmt.Fprintf(&b, "Bot 2: %s (id %s)\n", team2.Name, team2.BotID)
	fmt.Fprintf(&b, "Battle capability: %s\n", team2.BattleCapability)
	return b.String()
}
