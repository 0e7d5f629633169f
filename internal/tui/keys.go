package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type Action string

type Binding struct {
	Action Action
	Keys   []string
	Help   string
	Scopes []string
}

// KeyRegistry maps key names to actions per scope, falling back to the
// global scope.
type KeyRegistry struct {
	bindingsByScope map[string][]*Binding
	indexByScope    map[string]map[string]*Binding
}

const (
	scopeGlobal   = "global"
	scopeGrid     = "grid"
	scopeSettings = "settings"
)

const (
	actionQuit           Action = "quit"
	actionLeft           Action = "left"
	actionRight          Action = "right"
	actionUp             Action = "up"
	actionDown           Action = "down"
	actionClick          Action = "click"
	actionExtendClick    Action = "extend_click"
	actionClear          Action = "clear"
	actionToggleLabels   Action = "toggle_labels"
	actionToggleWeeks    Action = "toggle_weeks"
	actionToggleDiverge  Action = "toggle_diverging"
	actionSettings       Action = "settings"
	actionReload         Action = "reload"
	actionSettingsScroll Action = "settings_scroll"
	actionClose          Action = "close"
)

func NewKeyRegistry() *KeyRegistry {
	r := &KeyRegistry{
		bindingsByScope: make(map[string][]*Binding),
		indexByScope:    make(map[string]map[string]*Binding),
	}

	reg := func(scope string, action Action, keys []string, help string) {
		r.Register(Binding{Action: action, Keys: keys, Help: help, Scopes: []string{scope}})
	}

	reg(scopeGrid, actionLeft, []string{"left", "h"}, "prev day")
	reg(scopeGrid, actionRight, []string{"right", "l"}, "next day")
	reg(scopeGrid, actionUp, []string{"up", "k"}, "prev week")
	reg(scopeGrid, actionDown, []string{"down", "j"}, "next week")
	reg(scopeGrid, actionClick, []string{"enter"}, "select")
	reg(scopeGrid, actionExtendClick, []string{"space"}, "add to selection")
	reg(scopeGrid, actionClear, []string{"esc"}, "clear")
	reg(scopeGrid, actionToggleLabels, []string{"d"}, "labels")
	reg(scopeGrid, actionToggleWeeks, []string{"w"}, "weeks")
	reg(scopeGrid, actionToggleDiverge, []string{"v"}, "diverging")
	reg(scopeGrid, actionSettings, []string{"s"}, "settings")
	reg(scopeGrid, actionReload, []string{"r"}, "reload")

	reg(scopeSettings, actionSettingsScroll, []string{"j", "k", "down", "up"}, "scroll")
	reg(scopeSettings, actionClose, []string{"s", "esc"}, "close")

	reg(scopeGlobal, actionQuit, []string{"q", "ctrl+c"}, "quit")

	return r
}

func (r *KeyRegistry) Register(b Binding) {
	if r == nil {
		return
	}
	for _, scope := range b.Scopes {
		scope = strings.TrimSpace(scope)
		if scope == "" || len(b.Keys) == 0 {
			continue
		}
		if _, ok := r.indexByScope[scope]; !ok {
			r.indexByScope[scope] = make(map[string]*Binding)
		}
		normKeys := normalizeKeyList(b.Keys)
		if len(normKeys) == 0 || r.scopeHasAnyKey(scope, normKeys) {
			continue
		}

		copyBinding := b
		copyBinding.Keys = normKeys
		copyBinding.Scopes = []string{scope}
		r.bindingsByScope[scope] = append(r.bindingsByScope[scope], &copyBinding)
		for _, k := range copyBinding.Keys {
			r.indexByScope[scope][k] = &copyBinding
		}
	}
}

func (r *KeyRegistry) BindingsForScope(scope string) []Binding {
	if r == nil {
		return nil
	}
	items := r.bindingsByScope[scope]
	out := make([]Binding, 0, len(items))
	for _, b := range items {
		out = append(out, *b)
	}
	return out
}

func (r *KeyRegistry) Lookup(keyName, scope string) *Binding {
	if r == nil || keyName == "" {
		return nil
	}
	keyName = normalizeKeyName(keyName)
	if b := r.lookupInScope(keyName, scope); b != nil {
		return b
	}
	if scope != scopeGlobal {
		return r.lookupInScope(keyName, scopeGlobal)
	}
	return nil
}

// HelpBindings returns the footer bindings of scope followed by the global
// ones.
func (r *KeyRegistry) HelpBindings(scope string) []key.Binding {
	items := r.BindingsForScope(scope)
	if scope != scopeGlobal {
		items = append(items, r.BindingsForScope(scopeGlobal)...)
	}
	out := make([]key.Binding, 0, len(items))
	for _, b := range items {
		helpKey := b.Keys[0]
		if len(b.Keys) > 1 && len(b.Keys[1]) == 1 {
			helpKey = b.Keys[1]
		}
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(helpKey, b.Help)))
	}
	return out
}

func (r *KeyRegistry) lookupInScope(keyName, scope string) *Binding {
	lookup, ok := r.indexByScope[scope]
	if !ok {
		return nil
	}
	return lookup[keyName]
}

func (r *KeyRegistry) scopeHasAnyKey(scope string, keys []string) bool {
	lookup := r.indexByScope[scope]
	for _, k := range keys {
		if _, exists := lookup[k]; exists {
			return true
		}
	}
	return false
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		n := normalizeKeyName(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	return strings.ToLower(strings.TrimSpace(k))
}
