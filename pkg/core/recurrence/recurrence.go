package recurrence

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

const (
	// DefaultHour and DefaultMinute are used when a template's schedule
	// config is missing or has an unparsable time-of-day
	DefaultHour   = 19
	DefaultMinute = 0
)

// Config is the free-form schedule configuration stored on a template.
// DayOfWeek uses the external convention where 0 = Sunday.
// WeekOfMonth selectors are 1-based; 5 means the last occurrence of the
// weekday in the month regardless of how many there are.
type Config struct {
	Time        string `json:"time"`
	DayOfWeek   int    `json:"day_of_week"`
	WeekOfMonth []int  `json:"week_of_month"`
}

// rrule-go follows the dateutil convention where Monday is weekday 0
var weekdays = []rrule.Weekday{
	rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU,
}

// Expand calculates all occurrence timestamps for a schedule between start
// and start + monthsAhead. Occurrences are stamped with the configured
// time-of-day, filtered to >= start, and returned in ascending order.
// ad_hoc templates have nothing to expand and yield an empty result.
func Expand(scheduleType, configJSON string, start time.Time, monthsAhead int) ([]time.Time, error) {
	if scheduleType == "ad_hoc" {
		return nil, nil
	}

	cfg := parseConfig(configJSON)
	hour, minute := parseTimeOfDay(cfg.Time)

	// The horizon is inclusive of its final calendar day, so the window
	// runs to the end of that day rather than its midnight
	end := start.AddDate(0, monthsAhead, 0)
	until := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, end.Location())

	// Anchor the rule at start's calendar day with the configured time so
	// every generated occurrence carries it
	dtstart := time.Date(start.Year(), start.Month(), start.Day(), hour, minute, 0, 0, start.Location())

	opt := rrule.ROption{Dtstart: dtstart, Until: until}

	switch scheduleType {
	case "daily":
		opt.Freq = rrule.DAILY

	case "weekly":
		opt.Freq = rrule.WEEKLY
		opt.Byweekday = []rrule.Weekday{weekdays[internalWeekday(cfg.DayOfWeek)]}

	case "monthly":
		opt.Freq = rrule.MONTHLY
		wd := weekdays[internalWeekday(cfg.DayOfWeek)]
		selectors := cfg.WeekOfMonth
		if len(selectors) == 0 {
			selectors = []int{1}
		}
		for _, week := range selectors {
			switch {
			case week == 5:
				// Last occurrence of the weekday in the month
				opt.Byweekday = append(opt.Byweekday, wd.Nth(-1))
			case week >= 1 && week <= 4:
				opt.Byweekday = append(opt.Byweekday, wd.Nth(week))
			}
			// Selectors outside 1..5 are silently dropped; an Nth
			// selector with no match in a given month produces no
			// occurrence for that month
		}
		if len(opt.Byweekday) == 0 {
			return nil, nil
		}

	default:
		// Unknown schedule types behave like ad_hoc
		return nil, nil
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, err
	}

	dates := rule.Between(start, until, true)
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// parseConfig decodes the stored JSON config, falling back to defaults on
// any parse failure
func parseConfig(configJSON string) Config {
	var cfg Config
	if configJSON == "" {
		return cfg
	}
	if err := json.Unmarshal([]byte(configJSON), &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// parseTimeOfDay parses an "HH:MM" string, defaulting to 19:00
func parseTimeOfDay(s string) (hour, minute int) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return DefaultHour, DefaultMinute
	}
	h, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	m, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return DefaultHour, DefaultMinute
	}
	return h, m
}

// internalWeekday converts the external 0=Sunday convention to the
// 0=Monday convention used by date arithmetic
func internalWeekday(external int) int {
	if external > 0 {
		return (external - 1) % 7
	}
	return 6
}
