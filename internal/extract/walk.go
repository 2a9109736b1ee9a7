package extract

import "sort"

// card accumulates the tokens found beneath one node of the decoded value
// tree. A card is complete once it holds both a destination name and a
// price; dates and duration are optional extras.
type card struct {
	name     string
	price    int
	hasPrice bool
	dates    []string
	duration string
}

func (c *card) absorb(s string) {
	switch {
	case isISODate(s):
		if len(c.dates) < 2 {
			c.dates = append(c.dates, s)
		}
	case isDurationText(s):
		if c.duration == "" {
			c.duration = s
		}
	default:
		if p, ok := parsePriceToken(s); ok {
			if !c.hasPrice {
				c.price = p
				c.hasPrice = true
			}
			return
		}
		if c.name == "" && isDestinationName(s) {
			c.name = s
		}
	}
}

func (c *card) merge(other card) {
	if c.name == "" {
		c.name = other.name
	}
	if !c.hasPrice {
		c.price = other.price
		c.hasPrice = other.hasPrice
	}
	for _, d := range other.dates {
		if len(c.dates) < 2 {
			c.dates = append(c.dates, d)
		}
	}
	if c.duration == "" {
		c.duration = other.duration
	}
}

func (c *card) complete() bool {
	return c.name != "" && c.hasPrice
}

// walkCards runs the heuristic walk over a decoded value tree. The remote
// schema is unversioned, so nothing here assumes positions or field names:
// a candidate card is emitted at the smallest node whose subtree contains
// both a destination name and a price token. Once a subtree has emitted,
// enclosing nodes pass its tokens through without emitting again, so two
// sibling cards never collapse into one at their shared parent.
func walkCards(root any, emit func(card)) {
	scanNode(root, emit)
}

func scanNode(node any, emit func(card)) (card, bool) {
	var c card
	emitted := false

	switch v := node.(type) {
	case string:
		c.absorb(v)
		return c, false
	case []any:
		for _, child := range v {
			childCard, childEmitted := scanNode(child, emit)
			emitted = emitted || childEmitted
			c.merge(childCard)
		}
	case map[string]any:
		// Deterministic order; encoding/json map iteration is not.
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			childCard, childEmitted := scanNode(v[k], emit)
			emitted = emitted || childEmitted
			c.merge(childCard)
		}
	default:
		return c, false
	}

	if !emitted && c.complete() {
		emit(c)
		return c, true
	}
	return c, emitted
}
