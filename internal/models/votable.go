package models

// VotableType tags the two kinds of content a vote can land on. Dispatch
// happens on this tag instead of reflection.
type VotableType string

const (
	VotableLink    VotableType = "link"
	VotableComment VotableType = "comment"
)

func (t VotableType) Valid() bool {
	return t == VotableLink || t == VotableComment
}

// Votable is anything that can receive a vote. Link and Comment implement
// it explicitly; the vote ledger only ever sees this surface.
type Votable interface {
	VotableKind() VotableType
	VotableID() uint
	AuthorID() uint
}
