// Package graph implements depth-bounded traversal over context links.
// The usage pattern is "what touches this decision", not graph analytics,
// so depth is clamped to at most two hops.
package graph

import (
	"errors"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// Traversal direction of the link that discovered an item.
const (
	DirectionOutbound = "outbound"
	DirectionInbound  = "inbound"
)

// Depth bounds for Related.
const (
	MinDepth = 1
	MaxDepth = 2
)

// Related is a context item reachable from the seed, annotated with the
// relation and direction of the link that first discovered it and the hop
// distance of that discovery.
type Related struct {
	Item      *types.ContextItem `json:"item"`
	Relation  string             `json:"relation"`
	Direction string             `json:"direction"`
	Hops      int                `json:"hops"`
}

// linkStore is the slice of the store the walker needs.
type linkStore interface {
	GetContext(id string) (*types.ContextItem, error)
	LinksFrom(itemID string) ([]*types.Link, error)
	LinksTo(itemID string) ([]*types.Link, error)
}

// Walk returns the items reachable from the seed via links in either
// direction, breadth-first, within the given depth. Depth is clamped to
// [MinDepth, MaxDepth]. Each item is reported once, at its shallowest
// discovery; the seed itself is never reported. Items deleted since they
// were linked are skipped.
func Walk(store linkStore, seedID string, depth int) ([]*Related, error) {
	if seedID == "" {
		return nil, types.ErrInvalidID
	}
	if _, err := store.GetContext(seedID); err != nil {
		return nil, err
	}
	if depth < MinDepth {
		depth = MinDepth
	}
	if depth > MaxDepth {
		depth = MaxDepth
	}

	seen := map[string]bool{seedID: true}
	var results []*Related

	frontier, err := neighbors(store, seedID, 1, seen)
	if err != nil {
		return nil, err
	}
	results = append(results, frontier...)

	if depth == MaxDepth {
		for _, r := range frontier {
			next, err := neighbors(store, r.Item.ItemID, 2, seen)
			if err != nil {
				return nil, err
			}
			results = append(results, next...)
		}
	}
	return results, nil
}

// neighbors collects the direct links of an item in both directions,
// skipping anything already seen and marking discoveries in the seen set.
func neighbors(store linkStore, itemID string, hop int, seen map[string]bool) ([]*Related, error) {
	outbound, err := store.LinksFrom(itemID)
	if err != nil {
		return nil, err
	}
	inbound, err := store.LinksTo(itemID)
	if err != nil {
		return nil, err
	}

	var results []*Related
	visit := func(id, relation, direction string) error {
		if seen[id] {
			return nil
		}
		seen[id] = true
		item, err := store.GetContext(id)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				// Soft-deleted endpoint; the edge stays but the item is
				// invisible.
				return nil
			}
			return err
		}
		results = append(results, &Related{
			Item:      item,
			Relation:  relation,
			Direction: direction,
			Hops:      hop,
		})
		return nil
	}

	for _, l := range outbound {
		if err := visit(l.ToID, l.Relation, DirectionOutbound); err != nil {
			return nil, err
		}
	}
	for _, l := range inbound {
		if err := visit(l.FromID, l.Relation, DirectionInbound); err != nil {
			return nil, err
		}
	}
	return results, nil
}
