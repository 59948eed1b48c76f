package parse

import (
	"regexp"
	"strings"
)

// Strong conjunction markers always split. Checked longest-first so
// ", and also" wins over " and ".
var strongMarkers = []string{
	", and also ", " and also ", ", and then ", " and then ", "; ", ", then ",
}

// sharedTailRe matches a trailing " too in <target>" qualifier that applies
// to every segment of a compound command, e.g.
// "add X in checklist and Y in checklist too in Personal thoughts".
var sharedTailRe = regexp.MustCompile(`(?i)^(.*\S)\s+too\s+in\s+(?:the\s+)?"?([^"]+?)"?(?:\s+page)?\s*$`)

// ownPageRe reports a segment that names its own page target.
var ownPageRe = regexp.MustCompile(`(?i)\b(?:in|to|on|into)\s+(?:the\s+)?"?[^"]+?"?\s+page\b`)

// Split detects whether raw input encodes more than one command and splits
// it into an ordered list of single command strings.
//
// A trailing shared qualifier ("... too in Personal thoughts") is stripped
// from the last segment and distributed to every segment that does not name
// its own page. When splitting would be ambiguous the input is returned
// unchanged as a single-element list; Split never fails.
func Split(input string) []string {
	text := strings.TrimSpace(input)
	if text == "" {
		return []string{input}
	}

	shared := ""
	if m := sharedTailRe.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
		shared = strings.TrimSpace(m[2])
	}

	segments := []string{text}
	for _, marker := range strongMarkers {
		segments = splitAll(segments, marker, nil)
	}

	// Bare " and " splits only when the right side looks like an
	// independent command: it starts with an action verb or carries its
	// own target clause. "tea and biscuits" stays together.
	segments = splitAll(segments, " and ", func(right string) bool {
		return startsWithVerb(right) || strings.Contains(right, " in ")
	})

	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		seg = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(seg), "also "))
		if seg == "" {
			continue
		}
		if shared != "" && !containsFold(seg, shared) && !ownPageRe.MatchString(seg) {
			seg = seg + " in " + shared
		}
		out = append(out, seg)
	}
	if len(out) == 0 {
		return []string{input}
	}
	return out
}

// splitAll applies one marker to every segment. The optional accept func
// vets the right-hand side of each candidate split; a rejected split leaves
// the segment whole.
func splitAll(segments []string, marker string, accept func(right string) bool) []string {
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		remaining := seg
		for {
			idx := indexFold(remaining, marker)
			if idx < 0 {
				out = append(out, remaining)
				break
			}
			left, right := remaining[:idx], remaining[idx+len(marker):]
			if accept != nil && !accept(strings.TrimSpace(strings.ToLower(right))) {
				out = append(out, remaining)
				break
			}
			out = append(out, left)
			remaining = right
		}
	}
	return out
}

func startsWithVerb(text string) bool {
	words := strings.Fields(text)
	if len(words) == 0 {
		return false
	}
	first := strings.Trim(words[0], ",.")
	if first == "also" && len(words) > 1 {
		first = strings.Trim(words[1], ",.")
	}
	_, ok := verbKinds[first]
	return ok
}

// indexFold finds marker in s case-insensitively. The markers are ASCII, so
// folding byte by byte keeps the returned offset aligned with s even when s
// holds multi-byte runes whose lowercase form changes length.
func indexFold(s, marker string) int {
	for i := 0; i+len(marker) <= len(s); i++ {
		j := 0
		for ; j < len(marker); j++ {
			c := s[i+j]
			if 'A' <= c && c <= 'Z' {
				c += 'a' - 'A'
			}
			if c != marker[j] {
				break
			}
		}
		if j == len(marker) {
			return i
		}
	}
	return -1
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
