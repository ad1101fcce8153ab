package models

type MenuItem struct {
	Name  string
	Price int64
}

// MenuEvent is published after a menu change has been stored.
type MenuEvent struct {
	Type         string `json:"type"` // "item_added", "item_removed"
	RestaurantID int64  `json:"restaurant_id"`
	Restaurant   string `json:"restaurant"`
	Item         string `json:"item"`
	Price        int64  `json:"price,omitempty"`
	MenuSize     int    `json:"menu_size"`
}

const (
	MenuEventItemAdded   = "item_added"
	MenuEventItemRemoved = "item_removed"
)
