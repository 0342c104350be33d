package models

// ReferencesModel References model for related data
type ReferencesModel struct {
	Nodes []Node `json:"nodes"`
	Lines []Line `json:"lines"`
}

// NewEmptyReferences creates a new empty References model with initialized empty slices
func NewEmptyReferences() ReferencesModel {
	return ReferencesModel{
		Nodes: []Node{},
		Lines: []Line{},
	}
}
