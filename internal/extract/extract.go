// Package extract splits raw chat text into candidate identifier strings for
// the detector. It is the ingest half of the message-source collaborator; the
// detector itself never parses messages.
package extract

import "regexp"

// Digit runs of 10 or more, the shape payment references and phone numbers
// take in the groups this watches.
var numberPattern = regexp.MustCompile(`\b\d{10,}\b`)

// Candidates returns the candidate identifiers found in text, in order of
// appearance, with repeats within one message collapsed.
func Candidates(text string) []string {
	matches := numberPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
