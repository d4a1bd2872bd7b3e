package testutil

import "github.com/akaNaymin/necrobot/internal/race"

// Finisher builds a racer who completed the race in the given time at the
// qualifying level.
func Finisher(id int64, name string, t int64) race.Racer {
	return race.Racer{
		DiscordID: id,
		Name:      name,
		Time:      t,
		IGT:       t,
		Level:     race.LevelQualifying,
		Finished:  true,
	}
}

// DNF builds a racer who did not finish. The recorded time is whatever the
// race room reported when they quit.
func DNF(id int64, name string, t int64, level int) race.Racer {
	return race.Racer{
		DiscordID: id,
		Name:      name,
		Time:      t,
		IGT:       -1,
		Level:     level,
		Comment:   "forfeit",
	}
}

// SeededAllZones returns the race info that leaderboards count: seeded,
// public, all-zones.
func SeededAllZones(character string, amplified bool) race.RaceInfo {
	return race.RaceInfo{
		Character:  character,
		Descriptor: race.DescriptorAllZones,
		Seed:       12345,
		Seeded:     true,
		Amplified:  amplified,
	}
}
