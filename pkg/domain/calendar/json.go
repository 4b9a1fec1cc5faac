package calendar

import (
	"encoding/json"
	"fmt"
	"time"
)

// calendarFields has the fields of Calendar without its JSON methods.
type calendarFields Calendar

// calendarJSON writes the resolution as a duration string ("30m") as the
// YAML form does, instead of nanoseconds.
type calendarJSON struct {
	Resolution string `json:"timing_resolution,omitempty"`
	*calendarFields
}

func (c Calendar) MarshalJSON() ([]byte, error) {
	fields := calendarFields(c)
	out := calendarJSON{calendarFields: &fields}
	if c.Resolution > 0 {
		out.Resolution = c.Resolution.String()
	}
	return json.Marshal(out)
}

func (c *Calendar) UnmarshalJSON(data []byte) error {
	in := calendarJSON{calendarFields: (*calendarFields)(c)}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Resolution == "" {
		return nil
	}
	res, err := time.ParseDuration(in.Resolution)
	if err != nil {
		return fmt.Errorf("timing_resolution: %w", err)
	}
	c.Resolution = res
	return nil
}
