package classifier

import (
	"regexp"
	"strings"
)

// timestampPatterns are tried in order; the first one that matches anywhere
// in the line wins.
var timestampPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`),   // 2024-01-01 10:00:00
	regexp.MustCompile(`\d{2}/\d{2}/\d{4} \d{2}:\d{2}:\d{2}`),   // 01/31/2024 10:00:00
	regexp.MustCompile(`\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\]`), // [2024-01-01 10:00:00]
	regexp.MustCompile(`\d{2}:\d{2}:\d{2}`),                     // 10:00:00
}

// ExtractTimestamp finds the first timestamp pattern present in line and
// returns the matched text together with the line minus that first
// occurrence. The removal is a single pass: text joined across the cut may
// form another timestamp, which stays in body. When nothing matches, ts is empty and body is the trimmed line.
func ExtractTimestamp(line string) (ts, body string) {
	for _, re := range timestampPatterns {
		loc := re.FindStringIndex(line)
		if loc == nil {
			continue
		}
		ts = line[loc[0]:loc[1]]
		body = line[:loc[0]] + line[loc[1]:]
		return ts, strings.TrimSpace(body)
	}
	return "", strings.TrimSpace(line)
}
