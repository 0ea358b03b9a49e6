package extraction

import (
	"testing"
	"time"
)

func TestLocatePayload(t *testing.T) {
	tests := []struct {
		name   string
		reply  string
		want   string
		wantOK bool
	}{
		{name: "bare object", reply: `{"a":1}`, want: `{"a":1}`, wantOK: true},
		{name: "prose around object", reply: "Sure! Here you go:\n{\"a\":1}\nLet me know.", want: `{"a":1}`, wantOK: true},
		{name: "markdown fence", reply: "```json\n{\"a\":{\"b\":2}}\n```", want: `{"a":{"b":2}}`, wantOK: true},
		{name: "braces inside strings", reply: `{"t":"use } and { freely","n":{"x":"\"}"}} trailing }`, want: `{"t":"use } and { freely","n":{"x":"\"}"}}`, wantOK: true},
		{name: "first of two objects", reply: `{"a":1} {"b":2}`, want: `{"a":1}`, wantOK: true},
		{name: "no object", reply: "I could not find anything.", wantOK: false},
		{name: "unbalanced", reply: `{"a": [1, 2`, wantOK: false},
		{name: "empty", reply: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LocatePayload(tt.reply)
			if ok != tt.wantOK {
				t.Fatalf("LocatePayload() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("LocatePayload() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodePayload_Errors(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		kind  Kind
	}{
		{name: "no payload", reply: "nothing to see", kind: KindParse},
		{name: "balanced but not JSON", reply: "{tasks: []}", kind: KindParse},
		{name: "valid JSON wrong shape", reply: `{"tasks": []}`, kind: KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodePayload(BackendOpenAI, tt.reply)
			if KindOf(err) != tt.kind {
				t.Errorf("decodePayload() kind = %q, want %q (err: %v)", KindOf(err), tt.kind, err)
			}
		})
	}
}

func TestFinish_RoundTripNormalization(t *testing.T) {
	now := time.Date(2026, time.October, 14, 8, 0, 0, 0, time.UTC)

	res, err := finish(BackendAnthropic, "Here it is:\n"+samplePayload, &Usage{TotalTokens: 42}, now)
	if err != nil {
		t.Fatalf("finish() error = %v", err)
	}

	if len(res.Tasks) != 1 || len(res.Habits) != 1 || len(res.Events) != 1 || len(res.SleepSchedules) != 1 {
		t.Fatalf("got %d/%d/%d/%d records, want one of each",
			len(res.Tasks), len(res.Habits), len(res.Events), len(res.SleepSchedules))
	}

	sourceIDs := map[string]bool{"model-task-1": true, "model-habit-1": true, "model-event-1": true, "model-sleep-1": true}
	seen := map[string]bool{}
	for _, id := range []string{res.Tasks[0].ID, res.Habits[0].ID, res.Events[0].ID, res.SleepSchedules[0].ID} {
		if id == "" {
			t.Error("record has empty id")
		}
		if sourceIDs[id] {
			t.Errorf("id %q copied from model output", id)
		}
		if seen[id] {
			t.Errorf("id %q reused across records", id)
		}
		seen[id] = true
	}

	task := res.Tasks[0]
	if task.Title != "Call mom" || task.Priority != PriorityMedium || task.Category != CategoryPersonal {
		t.Errorf("task = %+v", task)
	}
	if task.Status != StatusNotStarted {
		t.Errorf("task status = %q, want %q", task.Status, StatusNotStarted)
	}
	if !task.CreatedAt.Equal(now) || !task.UpdatedAt.Equal(now) {
		t.Errorf("task timestamps = %v/%v, want %v", task.CreatedAt, task.UpdatedAt, now)
	}
	if task.DueDate == nil || task.DueDate.Format("2006-01-02") != "2026-10-15" {
		t.Errorf("task due date = %v, want 2026-10-15", task.DueDate)
	}

	habit := res.Habits[0]
	if habit.Frequency != FrequencyDaily || habit.ScheduledTime != "07:00" || !habit.Active || habit.Streak != 0 {
		t.Errorf("habit = %+v", habit)
	}
	if habit.CompletedDates == nil || len(habit.CompletedDates) != 0 {
		t.Errorf("habit completed dates = %v, want empty non-nil", habit.CompletedDates)
	}

	ev := res.Events[0]
	if ev.Type != EventMeeting || !ev.Fixed || ev.End.Sub(ev.Start) != time.Hour {
		t.Errorf("event = %+v", ev)
	}

	sleep := res.SleepSchedules[0]
	if sleep.Quality == nil || *sleep.Quality != 8 {
		t.Errorf("sleep quality = %v, want 8", sleep.Quality)
	}

	if res.Usage == nil || res.Usage.TotalTokens != 42 {
		t.Errorf("usage = %+v, want total 42", res.Usage)
	}
	if res.RawResponse == "" {
		t.Error("raw response not kept")
	}
}

func TestFinish_TranslationFailures(t *testing.T) {
	now := time.Date(2026, time.October, 14, 8, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		reply string
	}{
		{
			name:  "event ends before it starts",
			reply: `{"tasks":[],"habits":[],"sleep":[],"events":[{"title":"x","startTime":"2026-10-14T10:00","endTime":"2026-10-14T09:00","isFixed":false}]}`,
		},
		{
			name:  "event time unparseable",
			reply: `{"tasks":[],"habits":[],"sleep":[],"events":[{"title":"x","startTime":"tomorrow at ten","endTime":"2026-10-14T09:00","isFixed":false}]}`,
		},
		{
			name:  "event type outside set",
			reply: `{"tasks":[],"habits":[],"sleep":[],"events":[{"title":"x","startTime":"2026-10-14T09:00","endTime":"2026-10-14T10:00","isFixed":false,"type":"party"}]}`,
		},
		{
			name:  "sleep quality out of range",
			reply: `{"tasks":[],"habits":[],"events":[],"sleep":[{"bedtime":"23:00","wakeTime":"07:00","quality":11}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := finish(BackendOpenAI, tt.reply, nil, now)
			if KindOf(err) != KindValidation {
				t.Errorf("finish() kind = %q, want %q (err: %v)", KindOf(err), KindValidation, err)
			}
		})
	}
}

func TestFinish_EventWithoutTypeDefaultsToOther(t *testing.T) {
	reply := `{"tasks":[],"habits":[],"sleep":[],"events":[{"title":"x","startTime":"2026-10-14T09:00","endTime":"2026-10-14T09:00","isFixed":false}]}`
	res, err := finish(BackendOpenAI, reply, nil, time.Now())
	if err != nil {
		t.Fatalf("finish() error = %v", err)
	}
	if res.Events[0].Type != EventOther {
		t.Errorf("event type = %q, want %q", res.Events[0].Type, EventOther)
	}
}

func TestResult_Clone(t *testing.T) {
	due := time.Now()
	q := 5
	orig := &Result{
		Tasks:          []Task{{ID: "t", DueDate: &due}},
		Habits:         []Habit{{ID: "h", CompletedDates: []string{"2026-10-01"}}},
		SleepSchedules: []SleepSchedule{{ID: "s", Quality: &q}},
		Usage:          &Usage{TotalTokens: 10},
	}

	c := orig.Clone()
	c.Tasks[0].ID = "changed"
	*c.Tasks[0].DueDate = due.Add(time.Hour)
	c.Habits[0].CompletedDates[0] = "changed"
	*c.SleepSchedules[0].Quality = 9
	c.Usage.TotalTokens = 99

	if orig.Tasks[0].ID != "t" || !orig.Tasks[0].DueDate.Equal(due) {
		t.Error("clone shares task state")
	}
	if orig.Habits[0].CompletedDates[0] != "2026-10-01" {
		t.Error("clone shares habit dates")
	}
	if *orig.SleepSchedules[0].Quality != 5 {
		t.Error("clone shares sleep quality")
	}
	if orig.Usage.TotalTokens != 10 {
		t.Error("clone shares usage")
	}
	if (*Result)(nil).Clone() != nil {
		t.Error("nil Clone() should be nil")
	}
}
