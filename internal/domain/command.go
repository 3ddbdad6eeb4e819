package domain

// CommandType classifies what the user wants to do.
type CommandType int

const (
	CmdUnknown CommandType = iota
	CmdShowFridge
	CmdAddStock
	CmdTakeStock
	CmdExpiring
	CmdValue
	CmdListRecipes
	CmdShowRecipe
	CmdNewRecipe
	CmdAddToRecipe
	CmdCanMake
	CmdSuggest
	CmdHelp
	CmdQuit
)

// String returns a human-readable command type.
func (c CommandType) String() string {
	switch c {
	case CmdShowFridge:
		return "show_fridge"
	case CmdAddStock:
		return "add_stock"
	case CmdTakeStock:
		return "take_stock"
	case CmdExpiring:
		return "expiring"
	case CmdValue:
		return "value"
	case CmdListRecipes:
		return "list_recipes"
	case CmdShowRecipe:
		return "show_recipe"
	case CmdNewRecipe:
		return "new_recipe"
	case CmdAddToRecipe:
		return "add_to_recipe"
	case CmdCanMake:
		return "can_make"
	case CmdSuggest:
		return "suggest"
	case CmdHelp:
		return "help"
	case CmdQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Command represents a parsed user action.
type Command struct {
	Type    CommandType
	Payload string // the argument text after the verb, if any
}
