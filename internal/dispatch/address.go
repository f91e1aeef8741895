package dispatch

import "regexp"

// E.164: "+" followed by 1-15 digits, no leading zero.
var addressPattern = regexp.MustCompile(`^\+[1-9][0-9]{0,14}$`)

// NormalizeRecipients validates every target address and removes duplicates
// while preserving first-seen order. The first invalid address fails the
// whole operation; nothing may be sent when any recipient is malformed.
func NormalizeRecipients(targets []string) ([]string, error) {
	if len(targets) == 0 {
		return nil, &ValidationError{Kind: KindEmptyTarget}
	}

	seen := make(map[string]struct{}, len(targets))
	normalized := make([]string, 0, len(targets))

	for _, target := range targets {
		if !addressPattern.MatchString(target) {
			return nil, &ValidationError{Kind: KindInvalidAddress, Value: target}
		}

		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		normalized = append(normalized, target)
	}

	return normalized, nil
}
