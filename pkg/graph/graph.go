// Package graph derives a deployment order from a synthesized CloudFormation template.
//
// Edges come from the same references the provisioning engine uses: Ref, Fn::GetAtt,
// Fn::Sub placeholders and DependsOn. Parameters, conditions and pseudo parameters are
// not resources and are ignored.
package graph

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	ErrNoResources = errors.New("graph: template has no resources")
	ErrCycle       = errors.New("graph: dependency cycle")
)

var subPlaceholder = regexp.MustCompile(`\$\{([^!}][^}]*)\}`)

// Graph is a resource dependency graph. Edges point from a resource to what it depends on.
type Graph struct {
	types map[string]string
	deps  map[string]map[string]struct{}
}

// FromTemplate builds a Graph from a decoded template document.
func FromTemplate(template map[string]any) (*Graph, error) {
	raw, ok := template["Resources"].(map[string]any)
	if !ok || len(raw) == 0 {
		return nil, ErrNoResources
	}

	g := &Graph{
		types: make(map[string]string, len(raw)),
		deps:  make(map[string]map[string]struct{}, len(raw)),
	}
	for id, body := range raw {
		resource, _ := body.(map[string]any)
		typ, _ := resource["Type"].(string)
		g.types[id] = typ
		g.deps[id] = map[string]struct{}{}
	}

	for id, body := range raw {
		resource, _ := body.(map[string]any)
		refs := map[string]struct{}{}
		collectRefs(resource["Properties"], refs)
		collectDependsOn(resource["DependsOn"], refs)
		for ref := range refs {
			if ref == id {
				continue
			}
			if _, isResource := g.types[ref]; isResource {
				g.deps[id][ref] = struct{}{}
			}
		}
	}
	return g, nil
}

func collectDependsOn(value any, out map[string]struct{}) {
	switch v := value.(type) {
	case string:
		out[v] = struct{}{}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				out[s] = struct{}{}
			}
		}
	case []string:
		for _, s := range v {
			out[s] = struct{}{}
		}
	}
}

func collectRefs(value any, out map[string]struct{}) {
	switch v := value.(type) {
	case map[string]any:
		if len(v) == 1 {
			if ref, ok := v["Ref"].(string); ok {
				out[ref] = struct{}{}
				return
			}
			if att, ok := v["Fn::GetAtt"]; ok {
				collectGetAtt(att, out)
				return
			}
			if sub, ok := v["Fn::Sub"]; ok {
				collectSub(sub, out)
				return
			}
		}
		for _, child := range v {
			collectRefs(child, out)
		}
	case []any:
		for _, child := range v {
			collectRefs(child, out)
		}
	}
}

func collectGetAtt(value any, out map[string]struct{}) {
	switch v := value.(type) {
	case []any:
		if len(v) > 0 {
			if id, ok := v[0].(string); ok {
				out[id] = struct{}{}
			}
		}
	case string:
		if id, _, found := strings.Cut(v, "."); found {
			out[id] = struct{}{}
		}
	}
}

func collectSub(value any, out map[string]struct{}) {
	var (
		format string
		vars   any
	)
	switch v := value.(type) {
	case string:
		format = v
	case []any:
		if len(v) > 0 {
			format, _ = v[0].(string)
		}
		if len(v) > 1 {
			vars = v[1]
		}
	}

	local := map[string]struct{}{}
	if m, ok := vars.(map[string]any); ok {
		for name := range m {
			local[name] = struct{}{}
		}
		collectRefs(vars, out)
	}
	for _, match := range subPlaceholder.FindAllStringSubmatch(format, -1) {
		name, _, _ := strings.Cut(match[1], ".")
		if _, shadowed := local[name]; shadowed {
			continue
		}
		out[name] = struct{}{}
	}
}

// Len is the number of resources.
func (g *Graph) Len() int {
	return len(g.types)
}

// Type returns the CloudFormation type of id, or "" when id is unknown.
func (g *Graph) Type(id string) string {
	return g.types[id]
}

// OfType returns the sorted logical ids of resources with the given type.
func (g *Graph) OfType(typ string) []string {
	var out []string
	for id, t := range g.types {
		if t == typ {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// DirectDependencies returns the sorted ids that id references directly.
func (g *Graph) DirectDependencies(id string) []string {
	out := make([]string, 0, len(g.deps[id]))
	for dep := range g.deps[id] {
		out = append(out, dep)
	}
	sort.Strings(out)
	return out
}

// Dependencies returns the sorted transitive dependencies of id.
func (g *Graph) Dependencies(id string) []string {
	seen := map[string]struct{}{}
	stack := g.DirectDependencies(id)
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[next]; ok {
			continue
		}
		seen[next] = struct{}{}
		stack = append(stack, g.DirectDependencies(next)...)
	}
	out := make([]string, 0, len(seen))
	for dep := range seen {
		out = append(out, dep)
	}
	sort.Strings(out)
	return out
}

// Before reports whether a must be created before b, i.e. b depends on a transitively.
func (g *Graph) Before(a, b string) bool {
	for _, dep := range g.Dependencies(b) {
		if dep == a {
			return true
		}
	}
	return false
}

// Order returns a creation order in which every resource follows its dependencies.
//
// Ties are broken lexically so the order is deterministic.
func (g *Graph) Order() ([]string, error) {
	remaining := make(map[string]int, len(g.deps))
	dependents := make(map[string][]string, len(g.deps))
	for id, deps := range g.deps {
		remaining[id] = len(deps)
		for dep := range deps {
			dependents[dep] = append(dependents[dep], id)
		}
	}

	var ready []string
	for id, n := range remaining {
		if n == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(g.deps))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		var unlocked []string
		for _, dependent := range dependents[id] {
			remaining[dependent]--
			if remaining[dependent] == 0 {
				unlocked = append(unlocked, dependent)
			}
		}
		if len(unlocked) > 0 {
			ready = append(ready, unlocked...)
			sort.Strings(ready)
		}
	}

	if len(order) != len(g.deps) {
		var stuck []string
		for id, n := range remaining {
			if n > 0 {
				stuck = append(stuck, id)
			}
		}
		sort.Strings(stuck)
		return order, fmt.Errorf("%w: %s", ErrCycle, strings.Join(stuck, ", "))
	}
	return order, nil
}

// Step is one entry of a deployment plan.
type Step struct {
	ID        string   `json:"id"`
	Type      string   `json:"type"`
	DependsOn []string `json:"depends_on,omitempty"`
}

// Plan returns Order annotated with types and direct dependencies.
func (g *Graph) Plan() ([]Step, error) {
	order, err := g.Order()
	if err != nil {
		return nil, err
	}
	steps := make([]Step, 0, len(order))
	for _, id := range order {
		steps = append(steps, Step{ID: id, Type: g.types[id], DependsOn: g.DirectDependencies(id)})
	}
	return steps, nil
}
