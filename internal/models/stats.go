package models

// StatCard is one headline figure on the dashboard overview.
type StatCard struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}
