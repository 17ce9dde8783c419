package store

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/schema"
)

// validateName trims a race, stage or team name and checks it is non-blank and short enough.
func validateName(kind, name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%w: %s name cannot be blank", contract.ErrInvalidArgument, kind)
	}
	if n := utf8.RuneCountInString(trimmed); n > schema.MaxNameLength {
		return "", fmt.Errorf("%w: %s name %q has %d characters (max %d)", contract.ErrInvalidArgument, kind, trimmed, n, schema.MaxNameLength)
	}
	return trimmed, nil
}

// validateLocation checks a checkpoint location lies within the stage.
func validateLocation(stage *schema.Stage, location float64) error {
	if location < 0 || location > stage.Length {
		return fmt.Errorf("%w: location %.2fkm outside stage %d (0-%.2fkm)", contract.ErrInvalidArgument, location, stage.ID, stage.Length)
	}
	return nil
}

// validateTimes checks timestamps never go backwards.
func validateTimes(times []time.Time) error {
	for i := 1; i < len(times); i++ {
		if times[i].Before(times[i-1]) {
			return fmt.Errorf("%w: timestamp %d (%s) is before timestamp %d (%s)", contract.ErrInvalidArgument,
				i+1, times[i].Format(time.RFC3339Nano), i, times[i-1].Format(time.RFC3339Nano))
		}
	}
	return nil
}

// optionalNonNegative rejects a negative optional climb measurement.
func optionalNonNegative(field string, v *float64) error {
	if v != nil && *v < 0 {
		return fmt.Errorf("%w: %s cannot be negative (got %.2f)", contract.ErrInvalidArgument, field, *v)
	}
	return nil
}
