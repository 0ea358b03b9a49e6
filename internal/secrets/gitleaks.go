package secrets

import (
	"regexp"
	"strings"

	gitleaksConfig "github.com/zricethezav/gitleaks/v8/config"
	"github.com/zricethezav/gitleaks/v8/detect"
	gitleaksRegexp "github.com/zricethezav/gitleaks/v8/regexp"
)

// deepScan runs the gitleaks default ruleset over content and returns
// findings with byte offsets. Every occurrence of a detected secret is
// reported so that repeats are redacted too.
func deepScan(content string, allow []*regexp.Regexp) ([]Finding, error) {
	detector, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, err
	}
	if len(allow) > 0 {
		applyAllowlist(&detector.Config, allow)
	}

	var findings []Finding
	seen := make(map[string]bool)
	for _, f := range detector.DetectString(content) {
		secret := f.Secret
		if secret == "" {
			secret = f.Match
		}
		if secret == "" || seen[f.RuleID+"\x00"+secret] {
			continue
		}
		seen[f.RuleID+"\x00"+secret] = true

		for offset := 0; ; {
			idx := strings.Index(content[offset:], secret)
			if idx < 0 {
				break
			}
			start := offset + idx
			findings = append(findings, Finding{
				RuleID:      "gitleaks:" + f.RuleID,
				Description: f.Description,
				Severity:    "high",
				StartIndex:  start,
				EndIndex:    start + len(secret),
				Line:        strings.Count(content[:start], "\n") + 1,
			})
			offset = start + len(secret)
		}
	}
	return findings, nil
}

// applyAllowlist adds the compiled allow-list patterns to the detector.
func applyAllowlist(cfg *gitleaksConfig.Config, allow []*regexp.Regexp) {
	list := &gitleaksConfig.Allowlist{Description: "braindump allow list"}
	for _, re := range allow {
		list.Regexes = append(list.Regexes, (*gitleaksRegexp.Regexp)(re))
	}
	cfg.Allowlists = append(cfg.Allowlists, list)
}
