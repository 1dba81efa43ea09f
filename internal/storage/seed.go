package storage

import "budget/internal/core"

// defaultCategories is the fixed seed set: 8 expense categories with caps
// and 4 income categories. Applied with INSERT OR IGNORE on every open, so
// rows a user has already customized are never overwritten.
var defaultCategories = []core.Category{
	{Name: "Food & Dining", Type: core.Expense, Budget: 600.0, Icon: "restaurant", Color: "#FF9800"},
	{Name: "Transportation", Type: core.Expense, Budget: 400.0, Icon: "directions_car", Color: "#2196F3"},
	{Name: "Shopping", Type: core.Expense, Budget: 350.0, Icon: "shopping_bag", Color: "#9C27B0"},
	{Name: "Entertainment", Type: core.Expense, Budget: 200.0, Icon: "movie", Color: "#009688"},
	{Name: "Health", Type: core.Expense, Budget: 300.0, Icon: "medical_services", Color: "#F44336"},
	{Name: "Education", Type: core.Expense, Budget: 250.0, Icon: "school", Color: "#3F51B5"},
	{Name: "Utilities", Type: core.Expense, Budget: 500.0, Icon: "electrical_services", Color: "#FFC107"},
	{Name: "Rent", Type: core.Expense, Budget: 1200.0, Icon: "home", Color: "#795548"},
	{Name: "Salary", Type: core.Income, Budget: 0.0, Icon: "work", Color: "#4CAF50"},
	{Name: "Freelance", Type: core.Income, Budget: 0.0, Icon: "laptop", Color: "#2196F3"},
	{Name: "Business", Type: core.Income, Budget: 0.0, Icon: "business", Color: "#9C27B0"},
	{Name: "Investment", Type: core.Income, Budget: 0.0, Icon: "trending_up", Color: "#009688"},
}
