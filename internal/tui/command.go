package tui

import (
	"sort"
	"strings"
)

// Command is a parsed ':' command with its name resolved to the canonical form.
type Command struct {
	Name string
	Args string
}

// commands maps every accepted spelling to its canonical name.
var commands = map[string]string{
	"q":        "quit",
	"quit":     "quit",
	"h":        "help",
	"help":     "help",
	"r":        "reload",
	"reload":   "reload",
	"i":        "instance",
	"instance": "instance",
	"c":        "chat",
	"chat":     "chat",
	"sort":     "sort",
	"connect":  "connect",
	"logout":   "logout",
}

// ParseCommand parses input without the leading ':'. Unknown names are
// returned lower-cased so the caller can report them.
func ParseCommand(input string) Command {
	name, args, _ := strings.Cut(strings.TrimSpace(input), " ")
	name = strings.ToLower(name)
	if canonical, ok := commands[name]; ok {
		name = canonical
	}
	return Command{Name: name, Args: strings.TrimSpace(args)}
}

// CompleteCommand returns the canonical command names starting with prefix.
// Once a space is typed the command is complete and nothing is suggested.
func CompleteCommand(prefix string) []string {
	prefix = strings.ToLower(strings.TrimLeft(prefix, " "))
	if strings.Contains(prefix, " ") {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, canonical := range commands {
		if _, ok := seen[canonical]; ok || !strings.HasPrefix(canonical, prefix) {
			continue
		}
		seen[canonical] = struct{}{}
		out = append(out, canonical)
	}
	sort.Strings(out)
	return out
}
