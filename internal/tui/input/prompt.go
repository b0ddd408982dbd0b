// Package input provides completion for directives typed into the watch board.
package input

import "strings"

// PromptCommand describes a command suggestion entry.
type PromptCommand struct {
	Name        string
	Description string
	TakesArgs   bool
}

// PromptMatchingCommands returns commands that match the current input prefix,
// ignoring case. Input that already carries arguments matches nothing.
func PromptMatchingCommands(input string, commands []PromptCommand) []PromptCommand {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") || strings.ContainsAny(input, " \t") {
		return nil
	}

	prefix := strings.ToLower(trimmed)
	matches := make([]PromptCommand, 0, len(commands))
	for _, cmd := range commands {
		if strings.HasPrefix(strings.ToLower(cmd.Name), prefix) {
			matches = append(matches, cmd)
		}
	}
	return matches
}

// PromptAutocomplete completes input to the first matching command. Commands
// taking arguments are completed with a trailing delimiter so the first
// argument can be typed straight away.
func PromptAutocomplete(input, delim string, commands []PromptCommand) (string, bool) {
	matches := PromptMatchingCommands(input, commands)
	if len(matches) == 0 {
		return "", false
	}
	if matches[0].TakesArgs && delim != "" {
		return matches[0].Name + " " + delim, true
	}
	return matches[0].Name, true
}

// PromptHint renders the names of matching commands for a hint line.
func PromptHint(input string, commands []PromptCommand) string {
	matches := PromptMatchingCommands(input, commands)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.Name)
	}
	return strings.Join(names, "  ")
}
