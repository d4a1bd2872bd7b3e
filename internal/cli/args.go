package cli

import (
	"fmt"
	"strconv"

	"github.com/akaNaymin/necrobot/internal/race"
)

// argError is returned for any malformed positional argument.
func argError(name, value string, err error) error {
	return WrapExitError(ExitCommandError, fmt.Sprintf("invalid %s %q", name, value), err).withReason(ErrCodeInvalidArg)
}

func parseInt64Arg(name, value string) (int64, error) {
	v, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, argError(name, value, err)
	}
	return v, nil
}

func parseIntArg(name, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, argError(name, value, err)
	}
	return v, nil
}

func parseFloatArg(name, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, argError(name, value, err)
	}
	return v, nil
}

func parseDailyTypeArg(value string) (race.DailyType, error) {
	t, err := race.ParseDailyType(value)
	if err != nil {
		return 0, argError("daily type", value, err)
	}
	return t, nil
}
