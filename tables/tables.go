package tables

// These tables are in their own file because they are large.
//
// Every record name the game writes into a character save, with the wire type of its
// value and the kind of block it normally lives in. Desktop and mobile only differ where
// the bytes differ: wide strings are 2 bytes per character on desktop and 4 on mobile,
// and mobile saves carry mySaveId.

import "chrdig/types"

// "wide" is replaced by the platform's wide string type when a registry is built.
const wide = types.VT_UNKNOWN

var shared = []struct {
	block types.BlockType
	vars  map[string]types.VariableType
}{
	{types.BT_HEADER, map[string]types.VariableType{
		"headerVersion":        types.VT_INT,
		"playerCharacterClass": types.VT_STRING,
		"uniqueId":             types.VT_UID,
		"streamData":           types.VT_STREAM,
		"playerClassTag":       types.VT_STRING,
		"playerLevel":          types.VT_INT,
		"playerVersion":        types.VT_INT,
		"checksum":             types.VT_INT,
	}},
	{types.BT_CHARACTER, map[string]types.VariableType{
		"myPlayerName":           wide,
		"isInMainQuest":          types.VT_INT,
		"disableAutoPopV2":       types.VT_INT,
		"hasBeenInGame":          types.VT_INT,
		"money":                  types.VT_INT,
		"compassState":           types.VT_INT,
		"skillWindowShowHelp":    types.VT_INT,
		"alternateConfig":        types.VT_INT,
		"alternateConfigEnabled": types.VT_INT,
		"playerTexture":          types.VT_STRING,
		"versionCheckMovement":   types.VT_INT,
		"versionRespawnPoint":    types.VT_INT,
		"defaultText":            types.VT_STRING,
	}},
	{types.BT_TUTORIAL, map[string]types.VariableType{
		"numTutorialPagesV2": types.VT_INT,
		"currentPageV2":      types.VT_INT,
		"tutorialPageUID":    types.VT_INT,
	}},
	{types.BT_TELEPORTS, map[string]types.VariableType{
		"versionCheckTeleportInfo": types.VT_INT,
		"teleportUidsSize":         types.VT_INT,
		"teleportUID":              types.VT_UID,
	}},
	{types.BT_RESPAWNS, map[string]types.VariableType{
		"versionCheckRespawnInfo": types.VT_INT,
		"respawnUidsSize":         types.VT_INT,
		"respawnUID":              types.VT_UID,
	}},
	{types.BT_MARKERS, map[string]types.VariableType{
		"markerUidsSize": types.VT_INT,
		"markerUID":      types.VT_UID,
	}},
	{types.BT_MOVEMENT, map[string]types.VariableType{
		"strategicMovementRespawnPoint[i]": types.VT_UID,
	}},
	{types.BT_STATS, map[string]types.VariableType{
		"modifierPoints":                   types.VT_INT,
		"currentStats.charLevel":           types.VT_INT,
		"currentStats.experiencePoints":    types.VT_INT,
		"playTimeInSeconds":                types.VT_INT,
		"numberOfDeaths":                   types.VT_INT,
		"numberOfKills":                    types.VT_INT,
		"experienceFromKills":              types.VT_INT,
		"healthPotionsUsed":                types.VT_INT,
		"manaPotionsUsed":                  types.VT_INT,
		"maxLevel":                         types.VT_INT,
		"numHitsReceived":                  types.VT_INT,
		"numHitsInflicted":                 types.VT_INT,
		"greatestDamageInflicted":          types.VT_FLOAT,
		"greatestMonsterKilledName":        wide,
		"greatestMonsterKilledLevel":       types.VT_INT,
		"greatestMonsterKilledLifeAndMana": types.VT_INT,
		"criticalHitsInflicted":            types.VT_INT,
		"criticalHitsReceived":             types.VT_INT,
	}},
	{types.BT_SKILLS, map[string]types.VariableType{
		"max":                        types.VT_INT,
		"skillPoints":                types.VT_INT,
		"masteriesAllowed":           types.VT_INT,
		"skillReclamationPointsUsed": types.VT_INT,
		"hasSkillServices":           types.VT_INT,
	}},
	{types.BT_SKILL, map[string]types.VariableType{
		"skillName":       types.VT_STRING,
		"skillLevel":      types.VT_INT,
		"skillEnabled":    types.VT_INT,
		"skillActive":     types.VT_INT,
		"skillSubLevel":   types.VT_INT,
		"skillTransition": types.VT_INT,
	}},
	{types.BT_INVENTORY, map[string]types.VariableType{
		"itemPositionsSavedAsGridCoords": types.VT_INT,
		"numberOfSacks":                  types.VT_INT,
		"currentlyFocusedSackNumber":     types.VT_INT,
		"currentlySelectedSackNumber":    types.VT_INT,
	}},
	{types.BT_SACK, map[string]types.VariableType{
		"tempBool": types.VT_INT,
		"size":     types.VT_INT,
	}},
	{types.BT_ITEM, map[string]types.VariableType{
		"baseName":    types.VT_STRING,
		"prefixName":  types.VT_STRING,
		"suffixName":  types.VT_STRING,
		"relicName":   types.VT_STRING,
		"relicBonus":  types.VT_STRING,
		"seed":        types.VT_INT,
		"var1":        types.VT_INT,
		"relicName2":  types.VT_STRING,
		"relicBonus2": types.VT_STRING,
		"var2":        types.VT_INT,
		"pointX":      types.VT_INT,
		"pointY":      types.VT_INT,
	}},
	{types.BT_EQUIPMENT, map[string]types.VariableType{
		"equipmentCtrlIOStreamVersion": types.VT_INT,
		"itemAttached":                 types.VT_INT,
		"alternate":                    types.VT_INT,
	}},
	{types.BT_JOURNAL, map[string]types.VariableType{
		"journalEntriesSize": types.VT_INT,
		"questNote":          wide,
		"questTokenName":     types.VT_STRING,
	}},
	{types.BT_UI, map[string]types.VariableType{
		"primarySkill1":  types.VT_INT,
		"primarySkill2":  types.VT_INT,
		"primarySkill3":  types.VT_INT,
		"primarySkill4":  types.VT_INT,
		"primarySkill5":  types.VT_INT,
		"lastHotSlotRow": types.VT_INT,
		"hotSlotSkill":   types.VT_STRING,
		"hotSlotItem":    types.VT_STRING,
		"hotSlotBitmap":  types.VT_STREAM,
	}},
}

// Names used with more than one type. The wire width is the same for every variant;
// which one applies is decided by position (see Positional).
var multiple = map[string]struct {
	block    types.BlockType
	variants []types.VariableType
}{
	"temp": {types.BT_STATS, []types.VariableType{types.VT_FLOAT, types.VT_INT}},
}

// Only on mobile.
var mobile_only = map[string]struct {
	block types.BlockType
	vtype types.VariableType
}{
	"mySaveId": {types.BT_CHARACTER, types.VT_STRING},
}

// Positional names: a run of same-named records whose meaning is their position.
var positional = []Positional_rule{
	{"temp", 5, []string{"str", "dex", "int", "life", "mana"}, types.VT_FLOAT},
	{"temp", 1, []string{"difficulty"}, types.VT_INT},
}
