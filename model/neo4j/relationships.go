// api/model/neo4j/relationships.go
package harvest_neo4j

// Relationship Types
const (
	// RelHasRole represents the relationship between a user and their assigned roles
	RelHasRole = "HAS_ROLE"
)
