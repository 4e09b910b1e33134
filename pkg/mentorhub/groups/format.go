package groups

import "fmt"

// Labels are fixed-locale; the product ships in Chinese only.
const oneOnOneLabel = "一对一"

// FormatGroupName returns a group's display label. An explicit name always
// wins; otherwise the label is synthesized from the member count, with one
// and two participants both treated as a one-on-one session.
func FormatGroupName(name string, userCount int) string {
	if name != "" {
		return name
	}
	if userCount <= 2 {
		return oneOnOneLabel
	}
	return fmt.Sprintf("%d 人讨论组", userCount)
}
