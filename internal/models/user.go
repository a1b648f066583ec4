package models

// Company is the organization a directory user is affiliated with.
type Company struct {
	Name string `json:"name" yaml:"name"`
}

// UserRecord is one entry in the user directory.
// Records are owned by the record source and treated as read-only by the query pipeline.
type UserRecord struct {
	ID      int     `json:"id" yaml:"id"`
	Name    string  `json:"name" yaml:"name"`
	Email   string  `json:"email" yaml:"email"`
	Phone   string  `json:"phone" yaml:"phone"`
	Company Company `json:"company" yaml:"company"`
}
