package extraction

import (
	"fmt"
	"strings"
)

// Top-level keys every reply must carry.
const (
	keyTasks  = "tasks"
	keyHabits = "habits"
	keyEvents = "events"
	keySleep  = "sleep"
)

// Validate checks a decoded payload against the extraction schema before any
// field is used. It never coerces or defaults: "urgent" is not "high".
//
// Returns nil when the payload conforms, otherwise a *ValidationError listing
// every problem found.
func Validate(payload map[string]any) error {
	v := &validator{}
	v.validate(payload)
	if len(v.problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: v.problems}
}

// IsValid is the boolean form of Validate.
func IsValid(payload map[string]any) bool {
	return Validate(payload) == nil
}

type validator struct {
	problems []string
}

func (v *validator) fail(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) validate(payload map[string]any) {
	if payload == nil {
		v.fail("payload is not an object")
		return
	}
	tasks := v.list(payload, keyTasks)
	habits := v.list(payload, keyHabits)
	events := v.list(payload, keyEvents)
	sleep := v.list(payload, keySleep)

	for i, item := range tasks {
		obj := v.object(item, keyTasks, i)
		if obj == nil {
			continue
		}
		path := fmt.Sprintf("%s[%d]", keyTasks, i)
		v.nonEmpty(obj, path, "title")
		v.member(obj, path, "priority", func(s string) bool { return Priority(s).Valid() })
		v.member(obj, path, "category", func(s string) bool { return Category(s).Valid() })
		v.member(obj, path, "timeEstimate", func(s string) bool { return TimeEstimate(s).Valid() })
		v.member(obj, path, "energyLevel", func(s string) bool { return EnergyLevel(s).Valid() })
	}

	for i, item := range habits {
		obj := v.object(item, keyHabits, i)
		if obj == nil {
			continue
		}
		path := fmt.Sprintf("%s[%d]", keyHabits, i)
		v.nonEmpty(obj, path, "title")
		v.member(obj, path, "frequency", func(s string) bool { return Frequency(s).Valid() })
	}

	for i, item := range events {
		obj := v.object(item, keyEvents, i)
		if obj == nil {
			continue
		}
		path := fmt.Sprintf("%s[%d]", keyEvents, i)
		v.nonEmpty(obj, path, "title")
		v.nonEmpty(obj, path, "startTime")
		v.nonEmpty(obj, path, "endTime")
		if _, ok := obj["isFixed"].(bool); !ok {
			v.fail("%s.isFixed must be a boolean", path)
		}
	}

	for i, item := range sleep {
		obj := v.object(item, keySleep, i)
		if obj == nil {
			continue
		}
		path := fmt.Sprintf("%s[%d]", keySleep, i)
		v.nonEmpty(obj, path, "bedtime")
		v.nonEmpty(obj, path, "wakeTime")
	}
}

func (v *validator) list(payload map[string]any, key string) []any {
	raw, ok := payload[key]
	if !ok {
		v.fail("missing %q", key)
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		v.fail("%q must be an array", key)
		return nil
	}
	return items
}

func (v *validator) object(item any, key string, i int) map[string]any {
	obj, ok := item.(map[string]any)
	if !ok {
		v.fail("%s[%d] must be an object", key, i)
		return nil
	}
	return obj
}

func (v *validator) nonEmpty(obj map[string]any, path, field string) {
	s, ok := obj[field].(string)
	if !ok || strings.TrimSpace(s) == "" {
		v.fail("%s.%s must be a non-empty string", path, field)
	}
}

func (v *validator) member(obj map[string]any, path, field string, valid func(string) bool) {
	s, ok := obj[field].(string)
	if !ok {
		v.fail("%s.%s must be a string", path, field)
		return
	}
	if !valid(s) {
		v.fail("%s.%s has invalid value %q", path, field, s)
	}
}
