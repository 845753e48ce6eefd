// Package condition implements the predicates that decide whether a step
// policy applies to a leg.
//
// A Condition maps attribute names to sets of accepted values:
//
//	types: [road]           the edge is a road
//	not_types: [road]       the edge is anything but a road
//	types: [river, lake]    the edge is a river or a lake
//	travel: backward        the edge is traversed from HubB to HubA
//	direction: upwards      the edge data "direction" is "upwards"
//
// Attributes are AND-combined and the values of an attribute are
// OR-combined. An empty condition matches every leg.
package condition

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// NegationPrefix inverts the match of an attribute.
const NegationPrefix = "not_"

// Attributes gives access to the attributes of the leg being tested.
type Attributes interface {
	// Lookup returns the value of the named attribute and whether the leg
	// has it at all.
	Lookup(name string) (string, bool)
}

// Condition is a predicate over leg attributes.
type Condition map[string][]string

// Matches reports whether attrs satisfies every clause of c. A missing
// attribute fails a positive clause and passes a negated one.
func (c Condition) Matches(attrs Attributes) bool {
	for key, values := range c {
		if len(values) == 0 {
			continue
		}
		name, negated := strings.CutPrefix(key, NegationPrefix)
		v, ok := attrs.Lookup(name)
		in := ok && slices.Contains(values, v)
		if in == negated {
			return false
		}
	}
	return true
}

// Only returns the clauses of c that test one of the given attributes,
// negated or not.
func (c Condition) Only(names ...string) Condition {
	out := Condition{}
	for key, values := range c {
		name, _ := strings.CutPrefix(key, NegationPrefix)
		if slices.Contains(names, name) {
			out[key] = values
		}
	}
	return out
}

// String returns the clauses of c sorted by attribute name, e.g.
// "not_types=[road]".
func (c Condition) String() string {
	if len(c) == 0 {
		return "always"
	}
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sb := strings.Builder{}
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%s=[%s]", k, strings.Join(c[k], ","))
	}
	return sb.String()
}

// UnmarshalYAML accepts either a scalar or a sequence of scalars for each
// attribute.
func (c *Condition) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: condition must be a mapping", node.Line)
	}
	out := Condition{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]
		switch val.Kind {
		case yaml.ScalarNode:
			out[key] = []string{val.Value}
		case yaml.SequenceNode:
			values := []string{}
			if err := val.Decode(&values); err != nil {
				return fmt.Errorf("line %d: condition %q: %w", val.Line, key, err)
			}
			out[key] = values
		default:
			return fmt.Errorf("line %d: condition %q must be a value or a list of values", val.Line, key)
		}
	}
	*c = out
	return nil
}
