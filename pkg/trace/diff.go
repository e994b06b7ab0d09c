package trace

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Diff compares two traces line by line and returns a unified-style
// listing: unchanged lines are prefixed with two spaces, missing lines
// with "- " and unexpected lines with "+ ". It returns "" when the
// traces match.
func Diff(want, got []string, colors *Colors) string {
	from := joinLines(want)
	to := joinLines(got)
	if from == to {
		return ""
	}
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffpatch.DiffDelete:
				out.WriteString(colors.removed("- " + line))
			case diffpatch.DiffInsert:
				out.WriteString(colors.added("+ " + line))
			default:
				out.WriteString("  " + line)
			}
			out.WriteByte('\n')
		}
	}
	return out.String()
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
