package scenarios

import (
	"fmt"
	"strings"
)

// FormatReport renders a plain-text pass/fail report of the scenario suite.
func FormatReport(results []*Result) string {
	var sb strings.Builder

	passed := 0
	for _, r := range results {
		mark := "FAIL"
		if r.Passed {
			mark = "PASS"
			passed++
		}
		sb.WriteString(fmt.Sprintf("[%s] %s\n", mark, r.Name))
		sb.WriteString(fmt.Sprintf("       %s\n", r.Detail))
	}

	sb.WriteString(fmt.Sprintf("\n%d/%d scenarios passed\n", passed, len(results)))
	return sb.String()
}
