package bungie

import (
	"fmt"
	"strings"
)

// Mode is a Destiny activity mode as reported by the platform API.
type Mode int

const (
	ModeNone                    Mode = 0
	ModeStory                   Mode = 2
	ModeStrike                  Mode = 3
	ModeRaid                    Mode = 4
	ModeAllPvP                  Mode = 5
	ModePatrol                  Mode = 6
	ModeAllPvE                  Mode = 7
	ModeControl                 Mode = 10
	ModeClash                   Mode = 12
	ModeCrimsonDoubles          Mode = 15
	ModeNightfall               Mode = 16
	ModeHeroicNightfall         Mode = 17
	ModeAllStrikes              Mode = 18
	ModeIronBanner              Mode = 19
	ModeAllMayhem               Mode = 25
	ModeSupremacy               Mode = 31
	ModePrivateMatchesAll       Mode = 32
	ModeSurvival                Mode = 37
	ModeCountdown               Mode = 38
	ModeSocial                  Mode = 40
	ModeTrialsCountdown         Mode = 41
	ModeTrialsSurvival          Mode = 42
	ModeIronBannerControl       Mode = 43
	ModeIronBannerClash         Mode = 44
	ModeIronBannerSupremacy     Mode = 45
	ModeScoredNightfall         Mode = 46
	ModeScoredHeroicNightfall   Mode = 47
	ModeRumble                  Mode = 48
	ModeAllDoubles              Mode = 49
	ModeDoubles                 Mode = 50
	ModePrivateMatchesClash     Mode = 51
	ModePrivateMatchesControl   Mode = 52
	ModePrivateMatchesSupremacy Mode = 53
	ModePrivateMatchesCountdown Mode = 54
	ModePrivateMatchesSurvival  Mode = 55
	ModePrivateMatchesMayhem    Mode = 56
	ModePrivateMatchesRumble    Mode = 57
	ModeHeroicAdventure         Mode = 58
	ModeShowdown                Mode = 59
	ModeLockdown                Mode = 60
	ModeScorched                Mode = 61
	ModeScorchedTeam            Mode = 62
	ModeGambit                  Mode = 63
	ModeAllPvECompetitive       Mode = 64
	ModeBreakthrough            Mode = 65
	ModeBlackArmoryRun          Mode = 66
	ModeSalvage                 Mode = 67
	ModeIronBannerSalvage       Mode = 68
	ModePvPCompetitive          Mode = 69
	ModePvPQuickplay            Mode = 70
	ModeClashQuickplay          Mode = 71
	ModeClashCompetitive        Mode = 72
	ModeControlQuickplay        Mode = 73
	ModeControlCompetitive      Mode = 74
	ModeGambitPrime             Mode = 75
	ModeReckoning               Mode = 76
	ModeMenagerie               Mode = 77
	ModeVexOffensive            Mode = 78
	ModeNightmareHunt           Mode = 79
	ModeElimination             Mode = 80
	ModeMomentum                Mode = 81
	ModeDungeon                 Mode = 82
	ModeSundial                 Mode = 83
	ModeTrialsOfOsiris          Mode = 84
	ModeDares                   Mode = 85
	ModeOffensive               Mode = 86
	ModeLostSector              Mode = 87
	ModeRift                    Mode = 88
	ModeZoneControl             Mode = 89
	ModeIronBannerRift          Mode = 90
	ModeIronBannerZoneControl   Mode = 91
	ModeRelic                   Mode = 92
)

var modeNames = map[Mode]string{
	ModeNone:                    "none",
	ModeStory:                   "story",
	ModeStrike:                  "strike",
	ModeRaid:                    "raid",
	ModeAllPvP:                  "all_pvp",
	ModePatrol:                  "patrol",
	ModeAllPvE:                  "all_pve",
	ModeControl:                 "control",
	ModeClash:                   "clash",
	ModeCrimsonDoubles:          "crimson_doubles",
	ModeNightfall:               "nightfall",
	ModeHeroicNightfall:         "heroic_nightfall",
	ModeAllStrikes:              "all_strikes",
	ModeIronBanner:              "iron_banner",
	ModeAllMayhem:               "all_mayhem",
	ModeSupremacy:               "supremacy",
	ModePrivateMatchesAll:       "private_matches_all",
	ModeSurvival:                "survival",
	ModeCountdown:               "countdown",
	ModeSocial:                  "social",
	ModeTrialsCountdown:         "trials_countdown",
	ModeTrialsSurvival:          "trials_survival",
	ModeIronBannerControl:       "iron_banner_control",
	ModeIronBannerClash:         "iron_banner_clash",
	ModeIronBannerSupremacy:     "iron_banner_supremacy",
	ModeScoredNightfall:         "scored_nightfall",
	ModeScoredHeroicNightfall:   "scored_heroic_nightfall",
	ModeRumble:                  "rumble",
	ModeAllDoubles:              "all_doubles",
	ModeDoubles:                 "doubles",
	ModePrivateMatchesClash:     "private_matches_clash",
	ModePrivateMatchesControl:   "private_matches_control",
	ModePrivateMatchesSupremacy: "private_matches_supremacy",
	ModePrivateMatchesCountdown: "private_matches_countdown",
	ModePrivateMatchesSurvival:  "private_matches_survival",
	ModePrivateMatchesMayhem:    "private_matches_mayhem",
	ModePrivateMatchesRumble:    "private_matches_rumble",
	ModeHeroicAdventure:         "heroic_adventure",
	ModeShowdown:                "showdown",
	ModeLockdown:                "lockdown",
	ModeScorched:                "scorched",
	ModeScorchedTeam:            "scorched_team",
	ModeGambit:                  "gambit",
	ModeAllPvECompetitive:       "all_pve_competitive",
	ModeBreakthrough:            "breakthrough",
	ModeBlackArmoryRun:          "black_armory_run",
	ModeSalvage:                 "salvage",
	ModeIronBannerSalvage:       "iron_banner_salvage",
	ModePvPCompetitive:          "pvp_competitive",
	ModePvPQuickplay:            "pvp_quickplay",
	ModeClashQuickplay:          "clash_quickplay",
	ModeClashCompetitive:        "clash_competitive",
	ModeControlQuickplay:        "control_quickplay",
	ModeControlCompetitive:      "control_competitive",
	ModeGambitPrime:             "gambit_prime",
	ModeReckoning:               "reckoning",
	ModeMenagerie:               "menagerie",
	ModeVexOffensive:            "vex_offensive",
	ModeNightmareHunt:           "nightmare_hunt",
	ModeElimination:             "elimination",
	ModeMomentum:                "momentum",
	ModeDungeon:                 "dungeon",
	ModeSundial:                 "sundial",
	ModeTrialsOfOsiris:          "trials_of_osiris",
	ModeDares:                   "dares",
	ModeOffensive:               "offensive",
	ModeLostSector:              "lost_sector",
	ModeRift:                    "rift",
	ModeZoneControl:             "zone_control",
	ModeIronBannerRift:          "iron_banner_rift",
	ModeIronBannerZoneControl:   "iron_banner_zone_control",
	ModeRelic:                   "relic",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ModeFromString maps a case-insensitive mode name back to its value.
func ModeFromString(value string) (Mode, error) {
	needle := strings.ToLower(strings.TrimSpace(value))
	for mode, name := range modeNames {
		if name == needle {
			return mode, nil
		}
	}
	return ModeNone, fmt.Errorf("unknown activity mode %q", value)
}
