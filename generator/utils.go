package generator

import "strings"

// SplitSystem separates system messages from the conversation turns.
// Providers that take the system prompt out of band use it.
func SplitSystem(messages []Message) (string, []Message) {
	var system []string
	turns := make([]Message, 0, len(messages))

	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, m)
	}

	return strings.Join(system, "\n\n"), turns
}
