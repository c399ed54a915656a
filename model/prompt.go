package model

import "context"

// PromptOption is one labeled choice presented to the operator.
type PromptOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Prompt choice keys shared by the resolvers and their presentation layers.
const (
	ChoiceUseExisting = "use_existing"
	ChoiceCreateNew   = "create_new"
	ChoiceReplace     = "replace"
	ChoiceRename      = "rename"
	ChoiceCancel      = "cancel"
)

// Prompt is a request for exactly one operator decision.
type Prompt struct {
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Options []PromptOption `json:"options"`
}

// Prompter presents a prompt and awaits exactly one choice. Implementations
// are suspend points: Choose blocks until the operator answers or ctx is
// cancelled. There is no timeout and no default path.
type Prompter interface {
	Choose(ctx context.Context, p Prompt) (string, error)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(ctx context.Context, p Prompt) (string, error)

// Choose implements Prompter.
func (f PrompterFunc) Choose(ctx context.Context, p Prompt) (string, error) {
	return f(ctx, p)
}
