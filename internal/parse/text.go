package parse

import (
	"regexp"
	"strings"

	"github.com/sells-group/eca-cli/internal/model"
)

var (
	inviteOnlyRe = regexp.MustCompile(`(?i)\*?[\s\p{Zs}]*Invite[\s\p{Zs}]+Only[\s\p{Zs}]*\*?`)
	// initialsRe matches a fragment that is only initials, e.g. "J." or "A.B. (Head)".
	initialsRe = regexp.MustCompile(`^(?:\p{Lu}\.\s*)+(?:\(.*\))?$`)
)

// Teachers splits a teacher cell on commas that sit outside parentheses.
// A fragment made only of initials belongs to the surname before it, so
// "Smith, J. (Head), Jones" yields two teachers.
func Teachers(s string) []string {
	teachers := []string{}
	if model.IsMissing(s) {
		return teachers
	}

	var cur strings.Builder
	depth := 0
	flush := func() {
		t := strings.TrimSpace(cur.String())
		cur.Reset()
		switch {
		case t == "":
		case len(teachers) > 0 && initialsRe.MatchString(t):
			teachers[len(teachers)-1] += ", " + t
		default:
			teachers = append(teachers, t)
		}
	}

	for _, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			depth--
		case r == ',' && depth == 0:
			flush()
			continue
		}
		cur.WriteRune(r)
	}
	flush()

	return teachers
}

// InviteOnly reports whether a programme name carries an "invite only" marker.
func InviteOnly(name string) bool {
	return strings.Contains(strings.ToLower(name), "invite only")
}

// CleanName strips "*Invite Only*" markers and collapses whitespace runs.
func CleanName(name string) string {
	name = inviteOnlyRe.ReplaceAllString(name, "")
	return strings.Join(strings.Fields(name), " ")
}
