// Package conversation provides command parsing and user notification
// implementations.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/fridgeplan/internal/domain"
	"github.com/hammamikhairi/fridgeplan/internal/logger"
)

// Compile-time interface check.
var _ domain.CommandParser = (*KeywordParser)(nil)

// KeywordParser matches user input to commands using keywords and simple
// patterns. Rules with a capture group carry the captured text as the
// command payload; verb-only rules use non-capturing groups.
type KeywordParser struct {
	log   *logger.Logger
	rules []patternRule
}

type patternRule struct {
	regex *regexp.Regexp
	cmd   domain.CommandType
}

// NewKeywordParser creates a keyword-based command parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.rules = []patternRule{
		{regexp.MustCompile(`(?i)^(?:fridge|inventory|stock|show)$`), domain.CmdShowFridge},
		{regexp.MustCompile(`(?i)^(?:add|buy)\s+(.+)$`), domain.CmdAddStock},
		{regexp.MustCompile(`(?i)^(?:take|use|remove)\s+(.+)$`), domain.CmdTakeStock},
		{regexp.MustCompile(`(?i)^expiring(?:\s+(.+))?$`), domain.CmdExpiring},
		{regexp.MustCompile(`(?i)^(?:value|worth|total)$`), domain.CmdValue},
		{regexp.MustCompile(`(?i)^(?:recipes|cookbook|browse)$`), domain.CmdListRecipes},
		{regexp.MustCompile(`(?i)^recipe\s+(.+)$`), domain.CmdShowRecipe},
		{regexp.MustCompile(`(?i)^newrecipe\s+(.+)$`), domain.CmdNewRecipe},
		{regexp.MustCompile(`(?i)^need\s+(.+)$`), domain.CmdAddToRecipe},
		{regexp.MustCompile(`(?i)^(?:canmake|can i make|cook)\s+(.+?)\??$`), domain.CmdCanMake},
		{regexp.MustCompile(`(?i)^(?:suggest|suggestions|ideas|what can i make\??)$`), domain.CmdSuggest},
		{regexp.MustCompile(`(?i)^(?:help|h|\?)$`), domain.CmdHelp},
		{regexp.MustCompile(`(?i)^(?:quit|exit|q|bye)$`), domain.CmdQuit},
	}
	return p
}

// Parse converts user input into a command.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Command, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Command{Type: domain.CmdUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	for _, rule := range p.rules {
		m := rule.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		p.log.Debug("matched command: %s", rule.cmd)
		payload := ""
		if len(m) > 1 {
			payload = strings.TrimSpace(m[1])
		}
		return &domain.Command{Type: rule.cmd, Payload: payload}, nil
	}

	p.log.Debug("no match, returning unknown command")
	return &domain.Command{Type: domain.CmdUnknown, Payload: trimmed}, nil
}
