package devops

import (
	"fmt"
	"io"
	"strings"
)

type IssueType string

const (
	IssueError   IssueType = "error"
	IssueWarning IssueType = "warning"
)

func LogError(w io.Writer, msg string, a ...any) {
	fmt.Fprintf(w, "##vso[task.logissue type=error]%s\n", fmt.Sprintf(msg, a...))
}

func LogWarning(w io.Writer, msg string, a ...any) {
	fmt.Fprintf(w, "##vso[task.logissue type=warning]%s\n", fmt.Sprintf(msg, a...))
}

// LogIssue reports an issue attributed to a source location. An empty
// sourcePath omits the location.
func LogIssue(w io.Writer, kind IssueType, sourcePath string, line uint, msg string, a ...any) {
	properties := []string{"type=" + string(kind)}
	if sourcePath != "" {
		properties = append(properties, "sourcepath="+sourcePath)
		if line != 0 {
			properties = append(properties, fmt.Sprintf("linenumber=%d", line))
		}
	}

	fmt.Fprintf(w, "##vso[task.logissue %s]%s\n", strings.Join(properties, ";"), escape(fmt.Sprintf(msg, a...)))
}

// Logging commands end at the first line break.
func escape(msg string) string {
	msg = strings.ReplaceAll(msg, "%", "%AZP25")
	msg = strings.ReplaceAll(msg, "\r", "%0D")
	return strings.ReplaceAll(msg, "\n", "%0A")
}
