package engine

import (
	"strconv"
	"strings"

	"sunrise/internal/catalog"
	"sunrise/internal/storage"
)

// ParseProgress turns user input into the progress variant a task takes.
// Checkbox and timer tasks accept yes/no style words; number tasks accept a
// non-negative number.
func ParseProgress(t catalog.Task, input string) (storage.Progress, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	if t.Type == catalog.TaskNumber {
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return storage.Progress{}, inputErr("progress", "%q is not a number", input)
		}
		return storage.Count(n), nil
	}
	switch s {
	case "true", "yes", "y", "done", "on", "1", "x":
		return storage.Checked(true), nil
	case "false", "no", "n", "undo", "off", "0", "":
		return storage.Checked(false), nil
	default:
		return storage.Progress{}, inputErr("progress", "%q is not yes or no", input)
	}
}
