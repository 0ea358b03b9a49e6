package secrets

import (
	"fmt"
	"regexp"
)

const defaultRedaction = "[REDACTED]"

// Config configures the scrubber.
type Config struct {
	// Enabled controls whether scrubbing is active.
	Enabled bool `koanf:"enabled"`

	// Rules are the detection rules. Nil selects DefaultRules.
	Rules []Rule `koanf:"rules"`

	// RedactionString replaces each detected secret.
	RedactionString string `koanf:"redaction_string"`

	// AllowList holds patterns for matches that must be left alone.
	AllowList []string `koanf:"allow_list"`

	// AllowListFile names a TOML file whose [allowlist] regexes extend
	// AllowList. A missing file is ignored.
	AllowListFile string `koanf:"allow_list_file"`

	// Deep additionally runs the gitleaks default ruleset.
	Deep bool `koanf:"deep"`
}

// Rule defines a secret detection rule.
type Rule struct {
	ID          string   `koanf:"id"`
	Description string   `koanf:"description"`
	Pattern     string   `koanf:"pattern"`
	Keywords    []string `koanf:"keywords"` // at least one must appear in the text
	Severity    string   `koanf:"severity"`
}

type compiledRule struct {
	Rule
	pattern  *regexp.Regexp
	keywords []*regexp.Regexp
}

// DefaultConfig returns an enabled configuration with DefaultRules.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		RedactionString: defaultRedaction,
		Rules:           DefaultRules(),
	}
}

// compile validates the configuration and returns compiled rules and
// allow-list patterns.
func (c *Config) compile() ([]*compiledRule, []*regexp.Regexp, error) {
	rules := c.Rules
	if rules == nil {
		rules = DefaultRules()
	}

	compiled := make([]*compiledRule, 0, len(rules))
	for i, rule := range rules {
		if rule.ID == "" {
			return nil, nil, fmt.Errorf("rule %d: ID is required", i)
		}
		if rule.Pattern == "" {
			return nil, nil, fmt.Errorf("rule %s: pattern is required", rule.ID)
		}
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, nil, fmt.Errorf("rule %s: invalid pattern: %w", rule.ID, err)
		}
		cr := &compiledRule{Rule: rule, pattern: re}
		for _, kw := range rule.Keywords {
			cr.keywords = append(cr.keywords, regexp.MustCompile("(?i)"+regexp.QuoteMeta(kw)))
		}
		compiled = append(compiled, cr)
	}

	patterns := c.AllowList
	if c.AllowListFile != "" {
		extra, err := LoadAllowList(c.AllowListFile)
		if err != nil {
			return nil, nil, err
		}
		patterns = append(append([]string(nil), patterns...), extra...)
	}

	allow := make([]*regexp.Regexp, 0, len(patterns))
	for i, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, nil, fmt.Errorf("allow_list %d: invalid pattern: %w", i, err)
		}
		allow = append(allow, re)
	}

	return compiled, allow, nil
}
