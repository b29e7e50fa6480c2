package cmd

import (
	"strings"

	"github.com/fatih/color"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
)

func formatAnswerWithColor(answer string) string {
	switch strings.ToLower(answer) {
	case "yes":
		return colorSuccess(answer)
	case "partial":
		return colorWarn(answer)
	case "no":
		return colorError(answer)
	default:
		return answer
	}
}
