package models

// Category groups expenses for a single user.
type Category struct {
	Base
	UserID      string `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string `gorm:"size:30;not null" json:"name"`
	Color       string `gorm:"size:7;not null" json:"color"`
	Icon        string `gorm:"size:20;default:'tag'" json:"icon"`
	Description string `gorm:"size:100" json:"description"`
	IsDefault   bool   `json:"is_default"`
}

// DefaultCategories are seeded for every new user.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Lunch", Color: "#ef4444", Icon: "utensils"},
		{Name: "Dinner", Color: "#f97316", Icon: "utensils"},
		{Name: "Snacks", Color: "#eab308", Icon: "cookie"},
		{Name: "Travel", Color: "#22c55e", Icon: "car"},
		{Name: "Necessities", Color: "#3b82f6", Icon: "shopping-bag"},
		{Name: "Entertainment", Color: "#8b5cf6", Icon: "film"},
		{Name: "Healthcare", Color: "#ec4899", Icon: "heart"},
		{Name: "Education", Color: "#14b8a6", Icon: "book"},
	}
}
