package types

import "time"

// Link relation constants. A link is a directed, typed edge between two
// context items.
const (
	RelationRelatesTo  = "relates_to"
	RelationDependsOn  = "depends_on"
	RelationBlocks     = "blocks"
	RelationImplements = "implements"
	RelationExtends    = "extends"
	RelationReferences = "references"
)

// validRelations is the set of recognized link relations.
var validRelations = map[string]bool{
	RelationRelatesTo:  true,
	RelationDependsOn:  true,
	RelationBlocks:     true,
	RelationImplements: true,
	RelationExtends:    true,
	RelationReferences: true,
}

// ValidRelation reports whether r is a recognized link relation.
func ValidRelation(r string) bool {
	return validRelations[r]
}

// Link represents a directed edge in the context graph. At most one link
// exists per ordered (FromID, ToID) pair; the reverse direction is a
// distinct edge.
type Link struct {
	LinkID    string    `json:"link_id"`
	FromID    string    `json:"from_id"`
	ToID      string    `json:"to_id"`
	Relation  string    `json:"relation"`
	CreatedAt time.Time `json:"created_at"`
}
