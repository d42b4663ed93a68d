package services

import (
	"strings"
)

// CommandKind classifies an inbound payload before it reaches the state
// machine, so transition logic never re-parses raw text.
type CommandKind int

const (
	CommandFreeform CommandKind = iota
	CommandStart
	CommandStop
	CommandAffirmative
	CommandNegative
)

// Command is the normalized form of one inbound message.
type Command struct {
	Kind CommandKind
	Text string // trimmed original text, set for every kind
}

// ParseCommand normalizes an inbound text or button-reply payload against the
// locale's token sets.
func ParseCommand(raw string, r Replies) Command {
	text := strings.TrimSpace(raw)

	switch {
	case matchesToken(text, r.StartTokens):
		return Command{Kind: CommandStart, Text: text}
	case matchesToken(text, r.StopTokens):
		return Command{Kind: CommandStop, Text: text}
	case matchesToken(text, r.YesTokens):
		return Command{Kind: CommandAffirmative, Text: text}
	case matchesToken(text, r.NoTokens):
		return Command{Kind: CommandNegative, Text: text}
	}
	return Command{Kind: CommandFreeform, Text: text}
}

func matchesToken(text string, tokens []string) bool {
	for _, t := range tokens {
		if strings.EqualFold(text, t) {
			return true
		}
	}
	return false
}
