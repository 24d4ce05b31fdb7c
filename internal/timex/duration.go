// Package timex contains time helpers for configuration files.
package timex

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration is a time.Duration that unmarshals from JSON either as a Go
// duration string ("15m", "168h") or as an integer number of nanoseconds.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("invalid duration: %s", string(b))
	}
}
