package intent

import (
	"strconv"
	"strings"
)

// Defaults applied when the capability's textual response is missing or
// malformed on a field. Partial trust: a bad field never fails the request.
const (
	defaultConfidence = 0.7
)

// parseResponse extracts Intent/Confidence/Explanation from a line-oriented
// capability response. Unknown intent labels collapse to Other; an absent or
// unparsable confidence defaults to 0.7.
func parseResponse(raw string) Result {
	res := Result{Intent: Other, Confidence: defaultConfidence}
	confidenceSeen := false

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Intent:"):
			res.Intent = normalizeIntent(strings.TrimSpace(strings.TrimPrefix(line, "Intent:")))
		case strings.HasPrefix(line, "Confidence:"):
			v := strings.TrimSpace(strings.TrimPrefix(line, "Confidence:"))
			if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
				res.Confidence = f
				confidenceSeen = true
			}
		case strings.HasPrefix(line, "Explanation:"):
			res.Explanation = strings.TrimSpace(strings.TrimPrefix(line, "Explanation:"))
		}
	}

	if !confidenceSeen {
		res.Confidence = defaultConfidence
	}
	return res
}

func normalizeIntent(label string) Intent {
	cleaned := Intent(strings.ToLower(strings.Trim(label, "[] .")))
	if vocabulary[cleaned] {
		return cleaned
	}
	return Other
}
