package repl

import (
	"fmt"
	"strings"
)

// commandPrefix introduces a REPL command instead of script input.
const commandPrefix = ":"

// command is a REPL command.
type command struct {
	name  string
	alias string
	help  string
}

var commands = []command{
	{name: "help", alias: "h", help: "Print this help"},
	{name: "list", alias: "l", help: "List session bindings"},
	{name: "reset", alias: "r", help: "Remove all session bindings"},
	{name: "edit", alias: "e", help: "Edit session bindings in $EDITOR"},
	{name: "clear", alias: "c", help: "Clear screen"},
	{name: "quit", alias: "q", help: "Exit REPL"},
}

func commandNames() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}

	return names
}

// isCommand reports whether line is a REPL command.
func isCommand(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), commandPrefix)
}

// parseCommand returns the command named by line and its arguments. It
// reports false if line is not a command or names no known command; name is
// then the word that was given.
func parseCommand(line string) (cmd command, args []string, ok bool) {
	rest, isCmd := strings.CutPrefix(strings.TrimSpace(line), commandPrefix)
	if !isCmd {
		return command{}, nil, false
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return command{}, nil, false
	}

	for _, c := range commands {
		if fields[0] == c.name || fields[0] == c.alias {
			return c, fields[1:], true
		}
	}

	return command{name: fields[0]}, fields[1:], false
}

func helpMessage() string {
	var b strings.Builder

	b.WriteString("\nCommands:\n\n")

	for _, c := range commands {
		fmt.Fprintf(&b, "  %s%-6s %s%-2s %s\n",
			commandPrefix, c.name, commandPrefix, c.alias, c.help)
	}

	b.WriteString(`
Usage:
  Type script items to evaluate them: let bindings are kept for the
    session, static tokens and for items print their expansion
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to cancel completion or clear the line
  Use Up/Down arrows for history navigation
  Use Shift+Up/Shift+Down to navigate only commands or only script input,
    whichever the current line is
  Press Ctrl+C on empty line or Ctrl+D to exit
`)

	return b.String()
}
