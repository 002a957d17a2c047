package descriptor

import "fmt"

// Coordinate identifies a project in the workspace independent of its
// version: a (groupId, artifactId) pair. Equality and hashing are
// componentwise, which Go gives us for free by making Coordinate a
// comparable struct usable directly as a map key.
type Coordinate struct {
	GroupID    string
	ArtifactID string
}

// String renders the textual form "groupId:artifactId".
func (c Coordinate) String() string {
	return fmt.Sprintf("%s:%s", c.GroupID, c.ArtifactID)
}

// IsZero reports whether the coordinate is the empty value.
func (c Coordinate) IsZero() bool {
	return c.GroupID == "" && c.ArtifactID == ""
}

// ParentReference is the (groupId, artifactId, version) triple a raw
// descriptor's parent element carries.
type ParentReference struct {
	GroupID    string
	ArtifactID string
	Version    string
}

// Coordinate returns the version-less coordinate of the referenced parent.
func (p ParentReference) Coordinate() Coordinate {
	return Coordinate{GroupID: p.GroupID, ArtifactID: p.ArtifactID}
}
