package sqlite

import (
	"errors"
	"testing"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

func TestLink_CreateAndQuery(t *testing.T) {
	s := openStore(t)
	ws := makeWorkspace(t, s)
	a := makeItem(t, s, ws.WorkspaceID, func(c *types.ContextItem) { c.Content = "decision A" })
	b := makeItem(t, s, ws.WorkspaceID, func(c *types.ContextItem) { c.Content = "task B" })

	l := &types.Link{FromID: a.ItemID, ToID: b.ItemID, Relation: types.RelationImplements}
	if _, err := s.CreateLink(l); err != nil {
		t.Fatalf("CreateLink failed: %v", err)
	}

	from, err := s.LinksFrom(a.ItemID)
	if err != nil {
		t.Fatal(err)
	}
	if len(from) != 1 || from[0].ToID != b.ItemID || from[0].Relation != types.RelationImplements {
		t.Errorf("LinksFrom mismatch: %+v", from)
	}

	to, err := s.LinksTo(b.ItemID)
	if err != nil {
		t.Fatal(err)
	}
	if len(to) != 1 || to[0].FromID != a.ItemID {
		t.Errorf("LinksTo mismatch: %+v", to)
	}
}

func TestLink_DuplicateOrderedPairRejected(t *testing.T) {
	s := openStore(t)
	ws := makeWorkspace(t, s)
	a := makeItem(t, s, ws.WorkspaceID, nil)
	b := makeItem(t, s, ws.WorkspaceID, func(c *types.ContextItem) { c.Content = "other" })

	if _, err := s.CreateLink(&types.Link{FromID: a.ItemID, ToID: b.ItemID, Relation: types.RelationImplements}); err != nil {
		t.Fatal(err)
	}

	// Same endpoints and direction: duplicate, regardless of relation.
	_, err := s.CreateLink(&types.Link{FromID: a.ItemID, ToID: b.ItemID, Relation: types.RelationImplements})
	if !errors.Is(err, types.ErrDuplicateLink) {
		t.Errorf("expected ErrDuplicateLink, got %v", err)
	}
	_, err = s.CreateLink(&types.Link{FromID: a.ItemID, ToID: b.ItemID, Relation: types.RelationBlocks})
	if !errors.Is(err, types.ErrDuplicateLink) {
		t.Errorf("expected ErrDuplicateLink for same pair with new relation, got %v", err)
	}

	// Reverse direction is a distinct edge.
	if _, err := s.CreateLink(&types.Link{FromID: b.ItemID, ToID: a.ItemID, Relation: types.RelationImplements}); err != nil {
		t.Errorf("reverse direction rejected: %v", err)
	}
}

func TestLink_EndpointsMustExist(t *testing.T) {
	s := openStore(t)
	ws := makeWorkspace(t, s)
	a := makeItem(t, s, ws.WorkspaceID, nil)

	_, err := s.CreateLink(&types.Link{FromID: a.ItemID, ToID: "missing", Relation: types.RelationRelatesTo})
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing target, got %v", err)
	}
}

func TestLink_InvalidRelation(t *testing.T) {
	s := openStore(t)
	ws := makeWorkspace(t, s)
	a := makeItem(t, s, ws.WorkspaceID, nil)
	b := makeItem(t, s, ws.WorkspaceID, func(c *types.ContextItem) { c.Content = "other" })

	_, err := s.CreateLink(&types.Link{FromID: a.ItemID, ToID: b.ItemID, Relation: "mentions"})
	if !errors.Is(err, types.ErrInvalidRelation) {
		t.Errorf("expected ErrInvalidRelation, got %v", err)
	}
}

func TestLink_WorkspaceLinks(t *testing.T) {
	s := openStore(t)
	ws := makeWorkspace(t, s)
	other := &types.Workspace{Name: "other"}
	if _, err := s.CreateWorkspace(other); err != nil {
		t.Fatal(err)
	}

	a := makeItem(t, s, ws.WorkspaceID, nil)
	b := makeItem(t, s, ws.WorkspaceID, func(c *types.ContextItem) { c.Content = "b" })
	x := makeItem(t, s, other.WorkspaceID, func(c *types.ContextItem) { c.Content = "x" })
	y := makeItem(t, s, other.WorkspaceID, func(c *types.ContextItem) { c.Content = "y" })

	if _, err := s.CreateLink(&types.Link{FromID: a.ItemID, ToID: b.ItemID, Relation: types.RelationRelatesTo}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateLink(&types.Link{FromID: x.ItemID, ToID: y.ItemID, Relation: types.RelationRelatesTo}); err != nil {
		t.Fatal(err)
	}

	links, err := s.WorkspaceLinks(ws.WorkspaceID)
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 1 || links[0].FromID != a.ItemID {
		t.Errorf("workspace links wrong: %+v", links)
	}
}
