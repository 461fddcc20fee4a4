// api/model/neo4j/nodes.go
package harvest_neo4j

// Node Labels
const (
	// LabelUser represents an identity issued by the hosted backend
	LabelUser = "User"

	// LabelRole represents a role that can be assigned to users
	LabelRole = "Role"
)
