package models

// Restaurant is a row from the restaurants table. Opening and Closing are
// stored as seconds since midnight.
type Restaurant struct {
	ID       int64
	Name     string
	Location string
	Opening  int
	Closing  int
}
