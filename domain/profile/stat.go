package profile

import (
	"encoding/json"
	"math"
)

// Stat is a summary statistic that may be undefined (NaN), such as the
// standard deviation of a single value. encoding/json rejects NaN outright,
// so the undefined value round-trips as JSON null instead.
type Stat float64

// Undefined reports whether the statistic has no defined value
func (s Stat) Undefined() bool {
	return math.IsNaN(float64(s))
}

// Float returns the raw value, NaN when undefined
func (s Stat) Float() float64 {
	return float64(s)
}

// UndefinedStat is the not-a-number marker for summary statistics
func UndefinedStat() Stat {
	return Stat(math.NaN())
}

func (s Stat) MarshalJSON() ([]byte, error) {
	v := float64(s)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

func (s *Stat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = UndefinedStat()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Stat(v)
	return nil
}
