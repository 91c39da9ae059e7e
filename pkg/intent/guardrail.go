package intent

import "strings"

// Actions every role may take; they never resolve catalog or agenda data.
var neutralActions = []Action{ActionSmalltalk, ActionHours, ActionQA, ActionUnknown}

var builtinRoles = map[string][]Action{
	"sales":        {ActionSearchProduct, ActionBuy},
	"reservations": {ActionReservation},
}

// capabilityAliases maps role capabilities stored in the roles table onto actions.
var capabilityAliases = map[string][]Action{
	"quote":            {ActionSearchProduct},
	"sell":             {ActionSearchProduct, ActionBuy},
	"book_appointment": {ActionReservation},
}

// Guardrail decides whether an action is inside the active agent role.
type Guardrail struct {
	roles map[string]map[Action]struct{}
}

// NewGuardrail merges table roles (name -> capabilities) over the built-ins.
func NewGuardrail(table map[string][]string) *Guardrail {
	g := &Guardrail{roles: make(map[string]map[Action]struct{})}
	for name, actions := range builtinRoles {
		g.add(name, actions)
	}
	for name, caps := range table {
		var actions []Action
		for _, c := range caps {
			c = strings.ToLower(strings.TrimSpace(c))
			if alias, ok := capabilityAliases[c]; ok {
				actions = append(actions, alias...)
				continue
			}
			actions = append(actions, Action(c))
		}
		g.add(strings.ToLower(name), actions)
	}
	return g
}

func (g *Guardrail) add(name string, actions []Action) {
	set := make(map[Action]struct{}, len(actions)+len(neutralActions))
	for _, a := range neutralActions {
		set[a] = struct{}{}
	}
	for _, a := range actions {
		set[a] = struct{}{}
	}
	g.roles[name] = set
}

// Allows reports whether role may take action. Unknown or empty roles are
// unrestricted.
func (g *Guardrail) Allows(role string, action Action) bool {
	set, ok := g.roles[strings.ToLower(strings.TrimSpace(role))]
	if !ok {
		return true
	}
	_, allowed := set[action]
	return allowed
}

// Restricted reports whether role limits actions at all.
func (g *Guardrail) Restricted(role string) bool {
	_, ok := g.roles[strings.ToLower(strings.TrimSpace(role))]
	return ok
}
