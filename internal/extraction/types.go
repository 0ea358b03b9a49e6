package extraction

import (
	"context"
	"strings"
	"time"
)

// Backend identifies an LLM backend.
type Backend string

const (
	// BackendNone is the sentinel for "no backend configured".
	BackendNone      Backend = "none"
	BackendAnthropic Backend = "anthropic"
	BackendOpenAI    Backend = "openai"
	BackendGroq      Backend = "groq"
)

// Backends lists every selectable backend, excluding BackendNone.
func Backends() []Backend {
	return []Backend{BackendAnthropic, BackendOpenAI, BackendGroq}
}

// ParseBackend converts a configured identity into a Backend.
// The empty string maps to BackendNone.
func ParseBackend(s string) (Backend, bool) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case "", BackendNone:
		return BackendNone, true
	case BackendAnthropic, BackendOpenAI, BackendGroq:
		return b, true
	}
	return "", false
}

// Priority of a task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is a member of the closed set.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Category of a task.
type Category string

const (
	CategoryWork          Category = "work"
	CategoryPersonal      Category = "personal"
	CategoryHealth        Category = "health"
	CategoryCommunication Category = "communication"
	CategoryHome          Category = "home"
	CategoryOther         Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryHealth, CategoryCommunication, CategoryHome, CategoryOther:
		return true
	}
	return false
}

// TimeEstimate is the expected effort of a task.
type TimeEstimate string

const (
	Estimate5Min  TimeEstimate = "5min"
	Estimate10Min TimeEstimate = "10min"
	Estimate15Min TimeEstimate = "15min"
	Estimate30Min TimeEstimate = "30min"
	Estimate45Min TimeEstimate = "45min"
	Estimate1H    TimeEstimate = "1h"
	Estimate2H    TimeEstimate = "2h"
	Estimate3H    TimeEstimate = "3h"
	Estimate4H    TimeEstimate = "4h"
	Estimate1Day  TimeEstimate = "1day"
)

// TimeEstimates returns the closed set in ascending order.
func TimeEstimates() []TimeEstimate {
	return []TimeEstimate{
		Estimate5Min, Estimate10Min, Estimate15Min, Estimate30Min, Estimate45Min,
		Estimate1H, Estimate2H, Estimate3H, Estimate4H, Estimate1Day,
	}
}

func (t TimeEstimate) Valid() bool {
	for _, e := range TimeEstimates() {
		if t == e {
			return true
		}
	}
	return false
}

// EnergyLevel required to do a task.
type EnergyLevel string

const (
	EnergyHigh   EnergyLevel = "high"
	EnergyMedium EnergyLevel = "medium"
	EnergyLow    EnergyLevel = "low"
)

func (e EnergyLevel) Valid() bool {
	switch e {
	case EnergyHigh, EnergyMedium, EnergyLow:
		return true
	}
	return false
}

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not_started"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Frequency of a habit.
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyCustom:
		return true
	}
	return false
}

// EventType classifies a calendar event.
type EventType string

const (
	EventAppointment EventType = "appointment"
	EventMeeting     EventType = "meeting"
	EventDeadline    EventType = "deadline"
	EventSocial      EventType = "social"
	EventOther       EventType = "other"
)

func (e EventType) Valid() bool {
	switch e {
	case EventAppointment, EventMeeting, EventDeadline, EventSocial, EventOther:
		return true
	}
	return false
}

// Task is an actionable to-do item.
type Task struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description,omitempty"`
	Priority      Priority     `json:"priority"`
	Category      Category     `json:"category"`
	TimeEstimate  TimeEstimate `json:"timeEstimate"`
	EnergyLevel   EnergyLevel  `json:"energyLevel"`
	Status        TaskStatus   `json:"status"`
	DueDate       *time.Time   `json:"dueDate,omitempty"`
	ScheduledDate *time.Time   `json:"scheduledDate,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// Habit is a recurring activity.
type Habit struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Frequency      Frequency `json:"frequency"`
	ScheduledTime  string    `json:"scheduledTime,omitempty"` // HH:MM
	Active         bool      `json:"active"`
	Streak         int       `json:"streak"`
	CompletedDates []string  `json:"completedDates"` // YYYY-MM-DD
	CreatedAt      time.Time `json:"createdAt"`
}

// CalendarEvent is a time-boxed entry. End is never before Start.
type CalendarEvent struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"startTime"`
	End   time.Time `json:"endTime"`
	Type  EventType `json:"type"`
	Fixed bool      `json:"isFixed"`
}

// SleepSchedule records planned or actual sleep for one night.
type SleepSchedule struct {
	ID       string `json:"id"`
	Bedtime  string `json:"bedtime"`  // HH:MM
	WakeTime string `json:"wakeTime"` // HH:MM
	Date     string `json:"date"`     // YYYY-MM-DD
	Quality  *int   `json:"quality,omitempty"`
}

// Usage is token accounting reported by a backend.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// Result is the provider-neutral outcome of one extraction.
type Result struct {
	Tasks          []Task          `json:"tasks"`
	Habits         []Habit         `json:"habits"`
	Events         []CalendarEvent `json:"events"`
	SleepSchedules []SleepSchedule `json:"sleep"`
	RawResponse    string          `json:"rawResponse,omitempty"`
	Usage          *Usage          `json:"usage,omitempty"`
}

// Clone returns a deep copy of r that shares no mutable state with it.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	out := &Result{
		Tasks:          make([]Task, len(r.Tasks)),
		Habits:         make([]Habit, len(r.Habits)),
		Events:         make([]CalendarEvent, len(r.Events)),
		SleepSchedules: make([]SleepSchedule, len(r.SleepSchedules)),
		RawResponse:    r.RawResponse,
	}
	for i, t := range r.Tasks {
		t.DueDate = cloneTime(t.DueDate)
		t.ScheduledDate = cloneTime(t.ScheduledDate)
		out.Tasks[i] = t
	}
	for i, h := range r.Habits {
		h.CompletedDates = append([]string{}, h.CompletedDates...)
		out.Habits[i] = h
	}
	copy(out.Events, r.Events)
	for i, s := range r.SleepSchedules {
		if s.Quality != nil {
			q := *s.Quality
			s.Quality = &q
		}
		out.SleepSchedules[i] = s
	}
	if r.Usage != nil {
		u := *r.Usage
		out.Usage = &u
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// ModelInfo describes a model a backend advertises.
type ModelInfo struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	MaxOutputTokens int    `json:"maxOutputTokens"`
}

// Adapter turns raw text into a Result using one specific backend.
type Adapter interface {
	// Backend returns the identity this adapter serves.
	Backend() Backend

	// AvailableModels lists the model identifiers ProcessText accepts.
	AvailableModels() []ModelInfo

	// ProcessText issues exactly one request to the backend.
	ProcessText(ctx context.Context, text, credential, modelID string, opts Options) (*Result, error)
}
