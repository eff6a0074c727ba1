package models

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Weekdays is the canonical day order of a weekly schedule.
var Weekdays = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

const (
	defaultStart       = "09:00"
	defaultEnd         = "17:00"
	defaultWeekendEnd  = "14:00"
	clockLayout        = "15:04"
	daysPerWeek        = len(Weekdays)
	firstWeekendDayIdx = 5
)

type ScheduleEntry struct {
	Day         string `bson:"day" json:"day"`
	StartTime   string `bson:"startTime" json:"startTime"`
	EndTime     string `bson:"endTime" json:"endTime"`
	IsAvailable bool   `bson:"isAvailable" json:"isAvailable"`
}

// Schedule always holds exactly one entry per weekday, Monday first.
type Schedule []ScheduleEntry

// DefaultSchedule is Mon-Fri 09:00-17:00 available, Sat/Sun 09:00-14:00 off.
func DefaultSchedule() Schedule {
	s := make(Schedule, daysPerWeek)
	for i, day := range Weekdays {
		s[i] = ScheduleEntry{Day: day, StartTime: defaultStart, EndTime: defaultEnd, IsAvailable: true}
		if i >= firstWeekendDayIdx {
			s[i].EndTime = defaultWeekendEnd
			s[i].IsAvailable = false
		}
	}
	return s
}

// AvailableDays lists the day names whose entry is available, in schedule order.
func (s Schedule) AvailableDays() []string {
	days := make([]string, 0, len(s))
	for _, e := range s {
		if e.IsAvailable {
			days = append(days, e.Day)
		}
	}
	return days
}

// WithAvailableDays returns a copy of s where exactly the named days are
// available. An empty list leaves availability unchanged. Names that are not
// weekdays are skipped, so callers check them with IsWeekday first.
func (s Schedule) WithAvailableDays(days []string) Schedule {
	out := NormalizeSchedule(s.Input(), nil)
	applyLegacyDays(out, days)
	return out
}

// Input converts a normalized schedule back into its structured input form.
func (s Schedule) Input() ScheduleInput {
	entries := make([]PartialEntry, len(s))
	for i := range s {
		e := s[i]
		entries[i] = PartialEntry{Day: &e.Day, StartTime: &e.StartTime, EndTime: &e.EndTime, IsAvailable: &e.IsAvailable}
	}
	return ScheduleInput{Entries: entries}
}

// PartialEntry is one day as submitted by a client or found in storage.
// Any field may be missing.
type PartialEntry struct {
	Day         *string `bson:"day,omitempty" json:"day,omitempty"`
	StartTime   *string `bson:"startTime,omitempty" json:"startTime,omitempty"`
	EndTime     *string `bson:"endTime,omitempty" json:"endTime,omitempty"`
	IsAvailable *bool   `bson:"isAvailable,omitempty" json:"isAvailable,omitempty"`
}

func (e PartialEntry) empty() bool {
	return e.Day == nil && e.StartTime == nil && e.EndTime == nil && e.IsAvailable == nil
}

// ScheduleInput is a schedule in any accepted shape: structured per-day
// entries, bare per-day start times, the legacy [start, end] string pair,
// or nothing at all. It decodes from request JSON and from stored BSON
// alike; NormalizeSchedule turns it into a Schedule.
type ScheduleInput struct {
	Entries []PartialEntry
	Times   []string

	malformed bool
}

func (in ScheduleInput) IsZero() bool {
	return len(in.Entries) == 0 && len(in.Times) == 0 && !in.malformed
}

// Malformed reports a decoded value that was neither null nor an array.
func (in ScheduleInput) Malformed() bool {
	return in.malformed
}

// NormalizeSchedule is the only place a schedule shape is repaired.
// legacyDays is the stored availableDays list of old documents; it decides
// availability when the input carries none of its own.
func NormalizeSchedule(in ScheduleInput, legacyDays []string) Schedule {
	sched := DefaultSchedule()

	switch {
	case len(in.Entries) > 0:
		for i, e := range in.Entries {
			if e.empty() {
				continue
			}
			idx := i % daysPerWeek
			if e.Day != nil && strings.TrimSpace(*e.Day) != "" {
				d, ok := dayIndex(*e.Day)
				if !ok {
					continue
				}
				idx = d
			}
			entry := &sched[idx]
			if e.StartTime != nil && validClock(*e.StartTime) {
				entry.StartTime = *e.StartTime
			}
			if e.EndTime != nil && validClock(*e.EndTime) {
				entry.EndTime = *e.EndTime
			}
			entry.IsAvailable = e.IsAvailable == nil || *e.IsAvailable
		}
	case len(in.Times) > 0:
		start, end := in.Times[0], ""
		if len(in.Times) > 1 {
			end = in.Times[1]
		}
		for i := range sched {
			if validClock(start) {
				sched[i].StartTime = start
			}
			if validClock(end) {
				sched[i].EndTime = end
			}
		}
		applyLegacyDays(sched, legacyDays)
	default:
		applyLegacyDays(sched, legacyDays)
	}

	return sched
}

func applyLegacyDays(sched Schedule, days []string) {
	if len(days) == 0 {
		return
	}
	for i := range sched {
		sched[i].IsAvailable = false
	}
	for _, d := range days {
		if idx, ok := dayIndex(d); ok {
			sched[idx].IsAvailable = true
		}
	}
}

// IsWeekday reports whether name is a day of the week, ignoring case.
func IsWeekday(name string) bool {
	_, ok := dayIndex(name)
	return ok
}

func dayIndex(name string) (int, bool) {
	name = strings.TrimSpace(name)
	for i, d := range Weekdays {
		if strings.EqualFold(d, name) {
			return i, true
		}
	}
	return 0, false
}

func validClock(s string) bool {
	if len(s) != len(clockLayout) {
		return false
	}
	_, err := time.Parse(clockLayout, s)
	return err == nil
}

// legacyPairLen is the length of the old stored [start, end] timings.
const legacyPairLen = 2

// scheduleBuilder collects array elements in order so positional entries
// keep their index whatever their encoding.
type scheduleBuilder struct {
	items     []PartialEntry
	times     []string
	sawObject bool
}

// addTime records a bare time string as the start of its positional day,
// closing at the weekday default.
func (b *scheduleBuilder) addTime(s string) {
	end := defaultEnd
	b.times = append(b.times, s)
	b.items = append(b.items, PartialEntry{StartTime: &s, EndTime: &end})
}

func (b *scheduleBuilder) addEntry(e PartialEntry) {
	b.sawObject = true
	b.items = append(b.items, e)
}

func (b *scheduleBuilder) addInvalid() {
	b.sawObject = true
	b.items = append(b.items, PartialEntry{})
}

func (b *scheduleBuilder) result() ScheduleInput {
	if !b.sawObject && len(b.times) == legacyPairLen {
		return ScheduleInput{Times: b.times}
	}
	return ScheduleInput{Entries: b.items}
}

// UnmarshalJSON accepts null or an array of day objects and time strings.
// Any other value decodes as malformed for the caller to reject.
func (in *ScheduleInput) UnmarshalJSON(data []byte) error {
	*in = ScheduleInput{}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		in.malformed = true
		return nil
	}

	var b scheduleBuilder
	for _, raw := range items {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			b.addTime(s)
			continue
		}
		var e PartialEntry
		if err := json.Unmarshal(raw, &e); err == nil && strings.HasPrefix(strings.TrimSpace(string(raw)), "{") {
			b.addEntry(e)
			continue
		}
		b.addInvalid()
	}
	*in = b.result()
	return nil
}

func (in ScheduleInput) MarshalJSON() ([]byte, error) {
	if len(in.Entries) > 0 {
		return json.Marshal(in.Entries)
	}
	if len(in.Times) > 0 {
		return json.Marshal(in.Times)
	}
	return []byte("null"), nil
}

// UnmarshalBSONValue mirrors UnmarshalJSON for stored documents, which may
// predate the structured schedule.
func (in *ScheduleInput) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	*in = ScheduleInput{}
	if t != bsontype.Array {
		return nil
	}

	values, err := bson.Raw(data).Values()
	if err != nil {
		return err
	}

	var b scheduleBuilder
	for _, v := range values {
		switch v.Type {
		case bsontype.String:
			b.addTime(v.StringValue())
		case bsontype.EmbeddedDocument:
			var e PartialEntry
			if err := v.Unmarshal(&e); err != nil {
				b.addInvalid()
				continue
			}
			b.addEntry(e)
		default:
			b.addInvalid()
		}
	}
	*in = b.result()
	return nil
}

func (in ScheduleInput) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if len(in.Entries) > 0 {
		return bson.MarshalValue(in.Entries)
	}
	if len(in.Times) > 0 {
		return bson.MarshalValue(in.Times)
	}
	return bsontype.Null, nil, nil
}
