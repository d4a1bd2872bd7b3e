package cli

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"

	"github.com/akaNaymin/necrobot/internal/race"
)

//go:embed racefile.cue
var raceFileSchema string

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeParse       = "E006" // YAML parse failed
	ErrCodeSchema      = "E007" // Race file does not match the schema
	ErrCodeInvalidArg  = "E008" // Bad command argument
	ErrCodeInvalidTime = "E009" // Unparseable start timestamp
)

// LoadError represents an error that occurred while loading a race file.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// raceFile mirrors the YAML layout of a race file. Optional scalars are
// pointers so omitted values get their ledger defaults rather than zero.
type raceFile struct {
	Info   race.RaceInfo `yaml:"info"`
	Start  string        `yaml:"start"`
	Racers []racerEntry  `yaml:"racers"`
}

type racerEntry struct {
	DiscordID int64  `yaml:"discord_id"`
	Name      string `yaml:"name"`
	Time      int64  `yaml:"time"`
	IGT       *int64 `yaml:"igt"`
	Comment   string `yaml:"comment"`
	Level     *int   `yaml:"level"`
	Finished  bool   `yaml:"finished"`
}

// LoadRaceFile reads a YAML race file, validates it against the race file
// schema and converts it to a race. A file without a start time yields a zero
// Start; the caller decides what "now" is.
//
// Defaults: igt is -1 when omitted; level is race.LevelQualifying for a
// finisher and 0 for a non-finisher when omitted.
func LoadRaceFile(path string) (race.Race, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return race.Race{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("race file not found: %s", path)}
	}
	if err != nil {
		return race.Race{}, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("failed to read race file: %v", err)}
	}

	if err := validateRaceFile(filepath.Base(path), data); err != nil {
		return race.Race{}, err
	}

	// Strict decoding as a second line against typos the schema can't see.
	var rf raceFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&rf); err != nil {
		return race.Race{}, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("failed to parse YAML: %v", err)}
	}

	start, err := parseStart(rf.Start)
	if err != nil {
		return race.Race{}, &LoadError{Code: ErrCodeInvalidTime, Message: err.Error()}
	}

	r := race.Race{
		Info:   rf.Info,
		Start:  start,
		Racers: make([]race.Racer, 0, len(rf.Racers)),
	}
	for _, e := range rf.Racers {
		r.Racers = append(r.Racers, e.toRacer())
	}
	return r, nil
}

func (e racerEntry) toRacer() race.Racer {
	r := race.Racer{
		DiscordID: e.DiscordID,
		Name:      e.Name,
		Time:      e.Time,
		IGT:       -1,
		Comment:   e.Comment,
		Finished:  e.Finished,
	}
	if e.IGT != nil {
		r.IGT = *e.IGT
	}
	switch {
	case e.Level != nil:
		r.Level = *e.Level
	case e.Finished:
		r.Level = race.LevelQualifying
	}
	return r
}

// validateRaceFile checks raw YAML against the embedded CUE schema.
func validateRaceFile(filename string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(raceFileSchema, cue.Filename("racefile.cue"))
	if err := schema.Err(); err != nil {
		return &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("race file schema: %v", err)}
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("failed to parse YAML: %v", err)}
	}
	value := ctx.BuildFile(file)
	if err := value.Err(); err != nil {
		return &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("building race file: %v", err)}
	}

	unified := schema.LookupPath(cue.ParsePath("#RaceFile")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return schemaError(err)
	}
	return nil
}

// schemaError converts a CUE validation error into a LoadError, keeping the
// first position CUE reports.
func schemaError(err error) *LoadError {
	loadErr := &LoadError{Code: ErrCodeSchema, Message: err.Error()}
	for _, e := range cueerrors.Errors(err) {
		if positions := cueerrors.Positions(e); len(positions) > 0 {
			loadErr.Pos = positions[0]
			break
		}
	}
	return loadErr
}

// parseStart accepts RFC 3339 or the ledger's own timestamp layout (UTC).
func parseStart(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(race.TimestampLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start %q: want RFC 3339 or %q", s, race.TimestampLayout)
	}
	return t, nil
}
