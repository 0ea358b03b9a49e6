package secrets

// DefaultRules returns the detection rules applied to brain-dump text.
// Self-identifying token prefixes need no keyword; broad patterns are gated
// on a keyword to keep false positives out of ordinary notes.
func DefaultRules() []Rule {
	return []Rule{
		// LLM providers
		{
			ID:          "anthropic-api-key",
			Description: "Anthropic API Key",
			Pattern:     `sk-ant-[A-Za-z0-9_\-]{20,}`,
			Severity:    "high",
		},
		{
			ID:          "openai-api-key",
			Description: "OpenAI API Key",
			Pattern:     `sk-(?:proj-)?[A-Za-z0-9_\-]{32,}`,
			Severity:    "high",
		},
		{
			ID:          "groq-api-key",
			Description: "Groq API Key",
			Pattern:     `gsk_[A-Za-z0-9]{40,}`,
			Severity:    "high",
		},

		// Source hosting
		{
			ID:          "github-token",
			Description: "GitHub Token",
			Pattern:     `(?:ghp|gho|ghu|ghs)_[A-Za-z0-9]{36}|github_pat_[A-Za-z0-9_]{22,}`,
			Severity:    "high",
		},

		// Cloud
		{
			ID:          "aws-access-key-id",
			Description: "AWS Access Key ID",
			Pattern:     `\b(?:AKIA|ASIA|AGPA|AIDA|AROA)[A-Z0-9]{16}\b`,
			Severity:    "high",
		},
		{
			ID:          "stripe-key",
			Description: "Stripe API Key",
			Pattern:     `(?:sk|pk|rk)_(?:live|test)_[A-Za-z0-9]{24,}`,
			Severity:    "high",
		},

		// Key material
		{
			ID:          "private-key",
			Description: "Private Key Block",
			Pattern:     `-----BEGIN (?:RSA |DSA |EC |OPENSSH |PGP )?PRIVATE KEY(?: BLOCK)?-----[\s\S]*?(?:-----END [A-Z ]*PRIVATE KEY(?: BLOCK)?-----|$)`,
			Severity:    "high",
		},
		{
			ID:          "jwt",
			Description: "JSON Web Token",
			Pattern:     `eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*`,
			Severity:    "medium",
		},

		// Credentials written inline
		{
			ID:          "generic-api-key",
			Description: "Generic API Key Assignment",
			Pattern:     `(?i)(?:api[_-]?key|apikey|access[_-]?token)\s*[:=]\s*['"]?[A-Za-z0-9_\-]{16,64}['"]?`,
			Keywords:    []string{"key", "token"},
			Severity:    "high",
		},
		{
			ID:          "password-assignment",
			Description: "Password Assignment",
			Pattern:     `(?i)(?:password|passwd|pwd|passcode)\s*[:=]\s*['"]?[^\s'"]{4,}['"]?`,
			Keywords:    []string{"pass", "pwd"},
			Severity:    "high",
		},
		{
			ID:          "password-phrase",
			Description: "Password in Prose",
			Pattern:     `(?i)\b(?:password|passcode|pin)\s+(?:is|was)\s+['"]?[^\s'"]{4,}['"]?`,
			Keywords:    []string{"password", "passcode", "pin"},
			Severity:    "medium",
		},
		{
			ID:          "database-url",
			Description: "Connection URL with Credentials",
			Pattern:     `(?i)(?:postgres(?:ql)?|mysql|mongodb(?:\+srv)?|redis|amqp)://[^:\s]+:[^@\s]+@[^\s]+`,
			Severity:    "high",
		},
		{
			ID:          "bearer-token",
			Description: "Bearer Token",
			Pattern:     `(?i)bearer\s+[A-Za-z0-9_\-\.=]{20,}`,
			Keywords:    []string{"bearer"},
			Severity:    "medium",
		},

		// Payment
		{
			ID:          "card-number",
			Description: "Payment Card Number",
			Pattern:     `\b(?:4[0-9]{3}|5[1-5][0-9]{2}|3[47][0-9]{2}|6011)(?:[ -]?[0-9]{4}){2}[ -]?[0-9]{1,4}\b`,
			Severity:    "high",
		},
	}
}
