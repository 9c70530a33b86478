package jobs

import "strings"

// skillRule maps resume keywords to the query used for a skills-based search.
type skillRule struct {
	keywords []string
	query    string
}

// skillRules are checked in order; the first rule with a matching keyword wins.
// "java" precedes "javascript", so any JavaScript resume maps to the Java query.
var skillRules = []skillRule{
	{[]string{"python"}, "python developer"},
	{[]string{"java"}, "java developer"},
	{[]string{"javascript"}, "javascript developer"},
	{[]string{"data"}, "data scientist"},
	{[]string{"aws", "cloud"}, "devops engineer"},
}

// InferQuery picks a job search query from the technologies mentioned in
// resume, falling back to defaultRole. Matching is case-insensitive substring.
func InferQuery(resume, defaultRole string) string {
	lower := strings.ToLower(resume)
	for _, rule := range skillRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.query
			}
		}
	}
	return defaultRole
}
