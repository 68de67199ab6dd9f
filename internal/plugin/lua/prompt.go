package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// PromptFunc is the global function a prompt script must define.
const PromptFunc = "prompt"

// PromptScript computes prompts by calling a Lua prompt function.
type PromptScript struct {
	path  string
	state *State
}

// LoadPromptScript runs the script at path and checks that it defines
// the prompt function.
func LoadPromptScript(path string, opts ...StateOption) (*PromptScript, error) {
	state := NewState(opts...)
	if err := state.DoFile(path); err != nil {
		_ = state.Close()
		return nil, fmt.Errorf("loading prompt script %s: %w", path, err)
	}
	if state.GetGlobal(PromptFunc).Type() != lua.LTFunction {
		_ = state.Close()
		return nil, fmt.Errorf("loading prompt script %s: %w", path, ErrNoPromptFunc)
	}
	return &PromptScript{path: path, state: state}, nil
}

// Path returns the script path.
func (p *PromptScript) Path() string {
	return p.path
}

// Prompt calls prompt(count, last) and returns its string result.
func (p *PromptScript) Prompt(count int, last string) (string, error) {
	results, err := p.state.Call(PromptFunc, lua.LNumber(count), lua.LString(last))
	if err != nil {
		return "", fmt.Errorf("prompt script %s: %w", p.path, err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("prompt script %s: %w", p.path, ErrBadReturn)
	}
	s, ok := results[0].(lua.LString)
	if !ok {
		return "", fmt.Errorf("prompt script %s: %w (got %s)", p.path, ErrBadReturn, results[0].Type())
	}
	return string(s), nil
}

// Close releases the script's Lua state.
func (p *PromptScript) Close() error {
	return p.state.Close()
}
