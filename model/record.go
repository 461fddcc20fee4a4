package model

// Record is one row as returned by the hosted data service.
type Record map[string]interface{}

// ID returns the record's primary key, or "" if it has none.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}
