package race

import (
	"fmt"
	"strings"
	"time"
)

// Reserved level values.
const (
	LevelNotSubmitted = -1
	LevelQualifying   = -2
)

// DescriptorAllZones is the canonical descriptor that leaderboards are scoped to.
const DescriptorAllZones = "All-zones"

// TimestampLayout is the second-precision UTC layout race start times are stored with.
const TimestampLayout = "2006-01-02 15:04:05"

// User is one identity record. Empty strings mean the column is unset.
type User struct {
	DiscordID  int64  `json:"discord_id"`
	Name       string `json:"name,omitempty"`
	TwitchName string `json:"twitch_name,omitempty"`
	RTMPName   string `json:"rtmp_name,omitempty"`
	Timezone   string `json:"timezone,omitempty"`
	UserInfo   string `json:"user_info,omitempty"`
	DailyAlert bool   `json:"daily_alert"`
	RaceAlert  bool   `json:"race_alert"`
}

// Identity is the (discord id, name) pair seen when a user first appears.
type Identity struct {
	DiscordID int64  `json:"discord_id" yaml:"discord_id"`
	Name      string `json:"name" yaml:"name"`
}

// UserFilter selects users by alternate keys. Nil fields are not filtered on;
// set fields are combined with AND.
type UserFilter struct {
	DiscordID  *int64
	Name       *string
	TwitchName *string
	RTMPName   *string
}

// IsEmpty reports whether no filter field is set.
func (f UserFilter) IsEmpty() bool {
	return f.DiscordID == nil && f.Name == nil && f.TwitchName == nil && f.RTMPName == nil
}

// RaceInfo describes the variant of a race.
type RaceInfo struct {
	Character  string `json:"character" yaml:"character"`
	Descriptor string `json:"descriptor" yaml:"descriptor"`
	Flags      int    `json:"flags" yaml:"flags"`
	Seed       int64  `json:"seed" yaml:"seed"`
	Seeded     bool   `json:"seeded" yaml:"seeded"`
	Amplified  bool   `json:"amplified" yaml:"amplified"`
	Condor     bool   `json:"condor" yaml:"condor"`
	Private    bool   `json:"private" yaml:"private"`
}

// Racer is one participant's raw outcome as reported by the race room.
type Racer struct {
	DiscordID int64  `json:"discord_id" yaml:"discord_id"`
	Name      string `json:"name" yaml:"name"`
	Time      int64  `json:"time" yaml:"time"`
	IGT       int64  `json:"igt" yaml:"igt"`
	Comment   string `json:"comment" yaml:"comment"`
	Level     int    `json:"level" yaml:"level"`
	Finished  bool   `json:"finished" yaml:"finished"`
}

// Race is a completed race ready to be recorded.
type Race struct {
	Info   RaceInfo  `json:"info" yaml:"info"`
	Start  time.Time `json:"start" yaml:"start"`
	Racers []Racer   `json:"racers" yaml:"racers"`
}

// Placement is a racer with its assigned rank.
type Placement struct {
	Racer
	Rank int `json:"rank"`
}

// DailyType identifies a daily challenge variant.
type DailyType int

// Daily challenge variants.
const (
	DailyCadence DailyType = iota
	DailyRotating
)

var dailyTypeNames = map[DailyType]string{
	DailyCadence:  "cadence",
	DailyRotating: "rotating",
}

// String returns the variant's name.
func (t DailyType) String() string {
	if name, ok := dailyTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("daily(%d)", int(t))
}

// MarshalText encodes the variant by name.
func (t DailyType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a variant name.
func (t *DailyType) UnmarshalText(text []byte) error {
	parsed, err := ParseDailyType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseDailyType maps a variant name back to its DailyType.
func ParseDailyType(name string) (DailyType, error) {
	for t, n := range dailyTypeNames {
		if strings.EqualFold(n, name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown daily type %q", name)
}

// DailyEntry is one user's row for one daily. Level LevelNotSubmitted means registered only.
type DailyEntry struct {
	DiscordID int64     `json:"discord_id"`
	DailyID   int64     `json:"daily_id"`
	Type      DailyType `json:"type"`
	Level     int       `json:"level"`
	Time      int64     `json:"time"`
}

// Submitted reports whether the entry holds a submission.
func (e DailyEntry) Submitted() bool {
	return e.Level != LevelNotSubmitted
}

// DailyTime is a row of a daily's leaderboard.
type DailyTime struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
	Time  int64  `json:"time"`
}

// FastestTime is one row of the fastest qualifying time board.
type FastestTime struct {
	Name  string    `json:"name"`
	Time  int64     `json:"time"`
	Seed  int64     `json:"seed"`
	Start time.Time `json:"start"`
}

// RaceCount is one row of the most-races board.
type RaceCount struct {
	Name      string `json:"name"`
	Total     int    `json:"total"`
	Base      int    `json:"base"`
	Amplified int    `json:"amplified"`
}

// CharacterCount is a user's race count for one character.
type CharacterCount struct {
	Character string `json:"character"`
	Count     int    `json:"count"`
}

// TimeLevel is one raw (time, level) result used for statistics.
type TimeLevel struct {
	Time  int64 `json:"time"`
	Level int   `json:"level"`
}
