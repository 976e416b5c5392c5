package handler

import "github.com/thornvale/server/internal/data"

// The command table. Order within a first-letter bucket is priority
// order for prefix matching: common commands come first.
var cmdTable []CmdInfo

func init() {
	cmdTable = []CmdInfo{
		// Common movement and the single-letter workhorses.
		{Name: "north", MinPos: data.PosStanding, Show: false, Log: LogNever, Do: doNorth},
		{Name: "east", MinPos: data.PosStanding, Show: false, Log: LogNever, Do: doEast},
		{Name: "south", MinPos: data.PosStanding, Show: false, Log: LogNever, Do: doSouth},
		{Name: "west", MinPos: data.PosStanding, Show: false, Log: LogNever, Do: doWest},
		{Name: "up", MinPos: data.PosStanding, Show: false, Log: LogNever, Do: doUp},
		{Name: "down", MinPos: data.PosStanding, Show: false, Log: LogNever, Do: doDown},

		{Name: "look", MinPos: data.PosResting, Show: true, Do: doLook},
		{Name: "get", MinPos: data.PosResting, Show: true, Do: doGet},
		{Name: "kill", MinPos: data.PosFighting, Show: true, Do: doKill},
		{Name: "exits", MinPos: data.PosResting, Show: true, Do: doExits},

		// Communication.
		{Name: "say", MinPos: data.PosResting, Show: true, Do: doSay},
		{Name: "'", MinPos: data.PosResting, Show: false, Log: LogNever, Do: doSay},
		{Name: "tell", MinPos: data.PosResting, Show: true, Do: doTell},
		{Name: "reply", MinPos: data.PosResting, Show: true, Do: doReply},
		{Name: "shout", MinPos: data.PosResting, Show: true, Do: doShout},
		{Name: "emote", MinPos: data.PosResting, Show: true, Do: doEmote},
		{Name: ",", MinPos: data.PosResting, Show: false, Log: LogNever, Do: doEmote},
		{Name: "smote", MinPos: data.PosResting, Show: true, Do: doSmote},

		// Information.
		{Name: "who", MinPos: data.PosDead, Show: true, Do: doWho},
		{Name: "score", MinPos: data.PosDead, Show: true, Do: doScore},
		{Name: "help", MinPos: data.PosDead, Show: true, Do: doHelp},
		{Name: "areas", MinPos: data.PosDead, Show: true, Do: doAreas},
		{Name: "commands", MinPos: data.PosDead, Show: true, Do: doCommands},
		{Name: "inventory", MinPos: data.PosDead, Show: true, Do: doInventory},
		{Name: "equipment", MinPos: data.PosDead, Show: true, Do: doEquipment},
		{Name: "consider", MinPos: data.PosResting, Show: true, Do: doConsider},
		{Name: "scan", MinPos: data.PosResting, Show: true, Do: doScan},
		{Name: "time", MinPos: data.PosDead, Show: true, Do: doTime},
		{Name: "fortune", MinPos: data.PosResting, Show: true, LuaFn: "cmd_fortune"},
		{Name: "weather", MinPos: data.PosResting, Show: true, Do: doWeather},

		// Objects.
		{Name: "drop", MinPos: data.PosResting, Show: true, Do: doDrop},
		{Name: "put", MinPos: data.PosResting, Show: true, Do: doPut},
		{Name: "give", MinPos: data.PosResting, Show: true, Do: doGive},
		{Name: "wear", MinPos: data.PosResting, Show: true, Do: doWear},
		{Name: "wield", MinPos: data.PosResting, Show: true, Do: doWear},
		{Name: "hold", MinPos: data.PosResting, Show: true, Do: doWear},
		{Name: "remove", MinPos: data.PosResting, Show: true, Do: doRemove},

		// Doors.
		{Name: "open", MinPos: data.PosResting, Show: true, Do: doOpen},
		{Name: "close", MinPos: data.PosResting, Show: true, Do: doClose},
		{Name: "lock", MinPos: data.PosResting, Show: true, Do: doLock},
		{Name: "unlock", MinPos: data.PosResting, Show: true, Do: doUnlock},

		// Combat.
		{Name: "murder", MinPos: data.PosFighting, Show: false, Log: LogAlways, Do: doKill},
		{Name: "flee", MinPos: data.PosFighting, Show: true, Do: doFlee},
		{Name: "rescue", MinPos: data.PosFighting, Show: true, Do: doRescue},
		{Name: "surrender", MinPos: data.PosFighting, Show: true, Do: doSurrender},

		// Position and self-care.
		{Name: "stand", MinPos: data.PosSleeping, Show: true, Do: doStand},
		{Name: "rest", MinPos: data.PosSleeping, Show: true, Do: doRest},
		{Name: "sit", MinPos: data.PosSleeping, Show: true, Do: doSit},
		{Name: "sleep", MinPos: data.PosSleeping, Show: true, Do: doSleep},
		{Name: "wake", MinPos: data.PosSleeping, Show: true, Do: doStand},
		{Name: "wimpy", MinPos: data.PosDead, Show: true, Do: doWimpy},
		{Name: "title", MinPos: data.PosDead, Show: true, Do: doTitle},
		{Name: "recall", MinPos: data.PosFighting, Show: true, Do: doRecall},
		{Name: "/", MinPos: data.PosFighting, Show: false, Log: LogNever, Do: doRecall},
		{Name: "follow", MinPos: data.PosResting, Show: true, Do: doFollow},
		{Name: "quit", MinPos: data.PosDead, Show: true, Do: doQuit},
		{Name: "save", MinPos: data.PosDead, Show: true, Do: doSave},

		// Boards.
		{Name: "note", MinPos: data.PosDead, Show: true, Do: doNote},
		{Name: "idea", MinPos: data.PosDead, Show: true, Do: doIdea},
		{Name: "penalty", MinPos: data.PosDead, MinTrust: 52, Show: true, Do: doPenalty},

		// Immortal commands, gated by trust.
		{Name: "goto", MinPos: data.PosDead, MinTrust: 52, Show: true, Do: doGoto},
		{Name: "at", MinPos: data.PosDead, MinTrust: 52, Show: true, Do: doAt},
		{Name: "transfer", MinPos: data.PosDead, MinTrust: 53, Show: true, Do: doTransfer},
		{Name: "load", MinPos: data.PosDead, MinTrust: 53, Show: true, Log: LogAlways, Do: doLoad},
		{Name: "purge", MinPos: data.PosDead, MinTrust: 53, Show: true, Log: LogAlways, Do: doPurge},
		{Name: "force", MinPos: data.PosDead, MinTrust: 54, Show: true, Log: LogAlways, Do: doForce},
		{Name: "snoop", MinPos: data.PosDead, MinTrust: 55, Show: true, Log: LogAlways, Do: doSnoop},
		{Name: "stat", MinPos: data.PosDead, MinTrust: 52, Show: true, Do: doStat},
		{Name: "set", MinPos: data.PosDead, MinTrust: 56, Show: true, Log: LogAlways, Do: doSet},
		{Name: "advance", MinPos: data.PosDead, MinTrust: 58, Show: true, Log: LogAlways, Do: doAdvance},
		{Name: "restore", MinPos: data.PosDead, MinTrust: 54, Show: true, Log: LogAlways, Do: doRestore},
		{Name: "freeze", MinPos: data.PosDead, MinTrust: 55, Show: true, Log: LogAlways, Do: doFreeze},
		{Name: "deny", MinPos: data.PosDead, MinTrust: 57, Show: true, Log: LogAlways, Do: doDeny},
		{Name: "pardon", MinPos: data.PosDead, MinTrust: 55, Show: true, Log: LogAlways, Do: doPardon},
		{Name: "echo", MinPos: data.PosDead, MinTrust: 55, Show: true, Log: LogAlways, Do: doEcho},
		{Name: "peace", MinPos: data.PosDead, MinTrust: 54, Show: true, Do: doPeace},
		{Name: "wizlock", MinPos: data.PosDead, MinTrust: 57, Show: true, Log: LogAlways, Do: doWizlock},
		{Name: "newlock", MinPos: data.PosDead, MinTrust: 55, Show: true, Log: LogAlways, Do: doNewlock},
		{Name: "wiznet", MinPos: data.PosDead, MinTrust: 52, Show: true, Do: doWiznet},
		{Name: "wizhelp", MinPos: data.PosDead, MinTrust: 52, Show: true, Do: doWizhelp},
		{Name: "reload", MinPos: data.PosDead, MinTrust: 56, Show: true, Log: LogAlways, Do: doReload},
		{Name: "asave", MinPos: data.PosDead, MinTrust: 56, Show: true, Log: LogAlways, Do: doAsave},
		{Name: "reboot", MinPos: data.PosDead, MinTrust: 58, Show: true, Log: LogAlways, Do: doReboot},
		{Name: "shutdown", MinPos: data.PosDead, MinTrust: 59, Show: true, Log: LogAlways, Do: doShutdown},
		{Name: "lua", MinPos: data.PosDead, MinTrust: 60, Show: false, Log: LogAlways, Do: doLua},
		{Name: "log", MinPos: data.PosDead, MinTrust: 57, Show: true, Log: LogAlways, Do: doLogToggle},
	}
}
