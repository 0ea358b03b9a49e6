package extraction

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Layouts accepted for event timestamps and task dates, most specific first.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// translate converts a validated payload into domain records. Identifiers are
// always freshly generated and timestamps are stamped with now; anything the
// model sent for them is ignored.
func translate(backend Backend, payload map[string]any, now time.Time) (*Result, error) {
	t := &translator{now: now}
	res := &Result{
		Tasks:          make([]Task, 0),
		Habits:         make([]Habit, 0),
		Events:         make([]CalendarEvent, 0),
		SleepSchedules: make([]SleepSchedule, 0),
	}

	for i, item := range payload[keyTasks].([]any) {
		res.Tasks = append(res.Tasks, t.task(i, item.(map[string]any)))
	}
	for _, item := range payload[keyHabits].([]any) {
		res.Habits = append(res.Habits, t.habit(item.(map[string]any)))
	}
	for i, item := range payload[keyEvents].([]any) {
		res.Events = append(res.Events, t.event(i, item.(map[string]any)))
	}
	for i, item := range payload[keySleep].([]any) {
		res.SleepSchedules = append(res.SleepSchedules, t.sleep(i, item.(map[string]any)))
	}

	if len(t.problems) > 0 {
		return nil, &ValidationError{Backend: backend, Problems: t.problems}
	}
	return res, nil
}

type translator struct {
	now      time.Time
	problems []string
}

func (t *translator) fail(format string, args ...any) {
	t.problems = append(t.problems, fmt.Sprintf(format, args...))
}

func (t *translator) task(i int, obj map[string]any) Task {
	task := Task{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(stringValue(obj, "title")),
		Description:  strings.TrimSpace(stringValue(obj, "description")),
		Priority:     Priority(stringValue(obj, "priority")),
		Category:     Category(stringValue(obj, "category")),
		TimeEstimate: TimeEstimate(stringValue(obj, "timeEstimate")),
		EnergyLevel:  EnergyLevel(stringValue(obj, "energyLevel")),
		Status:       StatusNotStarted,
		CreatedAt:    t.now,
		UpdatedAt:    t.now,
	}
	task.DueDate = t.optionalTime(obj, fmt.Sprintf("tasks[%d].dueDate", i), "dueDate")
	task.ScheduledDate = t.optionalTime(obj, fmt.Sprintf("tasks[%d].scheduledDate", i), "scheduledDate")
	return task
}

func (t *translator) habit(obj map[string]any) Habit {
	return Habit{
		ID:             uuid.NewString(),
		Title:          strings.TrimSpace(stringValue(obj, "title")),
		Description:    strings.TrimSpace(stringValue(obj, "description")),
		Frequency:      Frequency(stringValue(obj, "frequency")),
		ScheduledTime:  strings.TrimSpace(stringValue(obj, "scheduledTime")),
		Active:         true,
		CompletedDates: []string{},
		CreatedAt:      t.now,
	}
}

func (t *translator) event(i int, obj map[string]any) CalendarEvent {
	path := fmt.Sprintf("events[%d]", i)
	ev := CalendarEvent{
		ID:    uuid.NewString(),
		Title: strings.TrimSpace(stringValue(obj, "title")),
		Type:  EventOther,
		Fixed: obj["isFixed"].(bool),
	}

	if raw, ok := obj["type"].(string); ok && raw != "" {
		if !EventType(raw).Valid() {
			t.fail("%s.type has invalid value %q", path, raw)
		}
		ev.Type = EventType(raw)
	}

	start, errStart := t.parseTime(stringValue(obj, "startTime"))
	end, errEnd := t.parseTime(stringValue(obj, "endTime"))
	if errStart != nil {
		t.fail("%s.startTime: %v", path, errStart)
	}
	if errEnd != nil {
		t.fail("%s.endTime: %v", path, errEnd)
	}
	if errStart == nil && errEnd == nil && end.Before(start) {
		t.fail("%s.endTime is before startTime", path)
	}
	ev.Start, ev.End = start, end
	return ev
}

func (t *translator) sleep(i int, obj map[string]any) SleepSchedule {
	s := SleepSchedule{
		ID:       uuid.NewString(),
		Bedtime:  strings.TrimSpace(stringValue(obj, "bedtime")),
		WakeTime: strings.TrimSpace(stringValue(obj, "wakeTime")),
		Date:     strings.TrimSpace(stringValue(obj, "date")),
	}
	if s.Date == "" {
		s.Date = t.now.Format("2006-01-02")
	}

	q, present, err := numberValue(obj, "quality")
	switch {
	case err != nil:
		t.fail("sleep[%d].%v", i, err)
	case present && (q < 0 || q > 10 || q != math.Trunc(q)):
		t.fail("sleep[%d].quality must be an integer between 0 and 10", i)
	case present:
		v := int(q)
		s.Quality = &v
	}
	return s
}

func (t *translator) optionalTime(obj map[string]any, path, field string) *time.Time {
	raw := strings.TrimSpace(stringValue(obj, field))
	if raw == "" {
		return nil
	}
	ts, err := t.parseTime(raw)
	if err != nil {
		t.fail("%s: %v", path, err)
		return nil
	}
	return &ts
}

// parseTime interprets zone-less timestamps in the location of now.
func (t *translator) parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, raw, t.now.Location()); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}

func stringValue(obj map[string]any, field string) string {
	s, _ := obj[field].(string)
	return s
}
