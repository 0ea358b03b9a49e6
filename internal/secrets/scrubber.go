package secrets

import (
	"regexp"
	"sort"
	"strings"
)

// Scrubber detects and redacts secrets from text.
type Scrubber interface {
	// Scrub returns the text with every detected secret replaced.
	Scrub(content string) *Result

	// IsEnabled returns whether scrubbing is active.
	IsEnabled() bool
}

type scrubber struct {
	enabled     bool
	deep        bool
	replacement string
	rules       []*compiledRule
	allow       []*regexp.Regexp
}

type span struct {
	start, end int
}

// New creates a Scrubber. A nil cfg selects DefaultConfig. A disabled
// config yields a scrubber that returns text unchanged.
func New(cfg *Config) (Scrubber, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if !cfg.Enabled {
		return NoopScrubber{}, nil
	}

	rules, allow, err := cfg.compile()
	if err != nil {
		return nil, err
	}

	replacement := cfg.RedactionString
	if replacement == "" {
		replacement = defaultRedaction
	}

	return &scrubber{
		enabled:     true,
		deep:        cfg.Deep,
		replacement: replacement,
		rules:       rules,
		allow:       allow,
	}, nil
}

// MustNew creates a Scrubber, panicking on error.
func MustNew(cfg *Config) Scrubber {
	s, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *scrubber) Scrub(content string) *Result {
	result := &Result{Scrubbed: content, ByRule: make(map[string]int)}

	var spans []span
	for _, rule := range s.rules {
		if !rule.applies(content) {
			continue
		}
		for _, m := range rule.pattern.FindAllStringIndex(content, -1) {
			if s.isAllowed(content[m[0]:m[1]]) {
				continue
			}
			result.Findings = append(result.Findings, Finding{
				RuleID:      rule.ID,
				Description: rule.Description,
				Severity:    rule.Severity,
				StartIndex:  m[0],
				EndIndex:    m[1],
				Line:        strings.Count(content[:m[0]], "\n") + 1,
			})
			result.ByRule[rule.ID]++
			spans = append(spans, span{m[0], m[1]})
		}
	}

	if s.deep {
		extra, err := deepScan(content, s.allow)
		if err != nil {
			result.Partial = true
		}
		for _, f := range extra {
			result.Findings = append(result.Findings, f)
			result.ByRule[f.RuleID]++
			spans = append(spans, span{f.StartIndex, f.EndIndex})
		}
	}

	if len(spans) == 0 {
		return result
	}

	var b strings.Builder
	b.Grow(len(content))
	last := 0
	for _, sp := range mergeSpans(spans) {
		b.WriteString(content[last:sp.start])
		b.WriteString(s.replacement)
		last = sp.end
	}
	b.WriteString(content[last:])
	result.Scrubbed = b.String()

	sort.Slice(result.Findings, func(i, j int) bool {
		return result.Findings[i].StartIndex < result.Findings[j].StartIndex
	})
	return result
}

func (s *scrubber) IsEnabled() bool {
	return s.enabled
}

func (s *scrubber) isAllowed(match string) bool {
	for _, re := range s.allow {
		if re.MatchString(match) {
			return true
		}
	}
	return false
}

// applies reports whether the rule's keyword gate passes for content.
func (r *compiledRule) applies(content string) bool {
	if len(r.keywords) == 0 {
		return true
	}
	for _, kw := range r.keywords {
		if kw.MatchString(content) {
			return true
		}
	}
	return false
}

// mergeSpans sorts spans and joins overlapping or adjacent ones.
func mergeSpans(spans []span) []span {
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	merged := []span{spans[0]}
	for _, curr := range spans[1:] {
		last := &merged[len(merged)-1]
		if curr.start <= last.end {
			if curr.end > last.end {
				last.end = curr.end
			}
			continue
		}
		merged = append(merged, curr)
	}
	return merged
}

// NoopScrubber returns content unchanged.
type NoopScrubber struct{}

func (NoopScrubber) Scrub(content string) *Result {
	return &Result{Scrubbed: content, ByRule: map[string]int{}}
}

func (NoopScrubber) IsEnabled() bool {
	return false
}

var (
	_ Scrubber = (*scrubber)(nil)
	_ Scrubber = NoopScrubber{}
)
