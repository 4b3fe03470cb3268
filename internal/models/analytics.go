package models

import (
	"math"
	"sort"

	"github.com/goccy/go-json"
)

const defaultSnapshotTime = "00:00:00"

// AnalyticsDataPoint is one snapshot row: the scheduled playlist minutes of
// every device, keyed by device name.
type AnalyticsDataPoint struct {
	Date    string
	Time    string
	Devices map[string]int
}

// MarshalJSON flattens the device columns next to date and time.
func (p AnalyticsDataPoint) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Devices)+2)
	for name, minutes := range p.Devices {
		out[name] = minutes
	}
	out["date"] = p.Date
	out["time"] = p.Time
	return json.Marshal(out)
}

func (p *AnalyticsDataPoint) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = AnalyticsDataPoint{Devices: map[string]int{}}
	for key, val := range raw {
		switch key {
		case "date":
			if err := json.Unmarshal(val, &p.Date); err != nil {
				return err
			}
		case "time":
			if err := json.Unmarshal(val, &p.Time); err != nil {
				return err
			}
		default:
			var n float64
			if err := json.Unmarshal(val, &n); err != nil {
				// non-numeric columns are not device minutes
				continue
			}
			p.Devices[key] = int(math.Round(n))
		}
	}
	if p.Time == "" {
		p.Time = defaultSnapshotTime
	}
	return nil
}

// SortDataPoints orders rows chronologically. Date and time are zero-padded
// so lexical order is chronological.
func SortDataPoints(points []AnalyticsDataPoint) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Before(points[j])
	})
}

// Before reports whether p was taken earlier than q.
func (p AnalyticsDataPoint) Before(q AnalyticsDataPoint) bool {
	if p.Date != q.Date {
		return p.Date < q.Date
	}
	return p.Time < q.Time
}

// ExposureMap counts how many times each media item was shown.
type ExposureMap map[string]int64
