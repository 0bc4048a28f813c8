package usecase

import "github.com/macrolens/shelflife/internal/domain"

func item(name, category string, variants ...string) domain.TestItem {
	return domain.TestItem{Name: name, Category: category, Variants: variants}
}

// DefaultTestItems returns the 50 grocery items checked against FoodKeeper,
// grouped by store section. The order is the reporting order.
func DefaultTestItems() []domain.TestItem {
	return []domain.TestItem{
		// Dairy
		item("milk", "dairy", "milk", "whole milk"),
		item("cheddar cheese", "dairy", "cheese", "cheddar"),
		item("yogurt", "dairy", "yogurt"),
		item("butter", "dairy", "butter"),
		item("eggs", "dairy", "eggs", "egg"),

		// Meat
		item("chicken breast", "meat", "chicken", "breast"),
		item("ground beef", "meat", "beef", "ground"),
		item("bacon", "meat", "bacon"),
		item("pork chops", "meat", "pork"),
		item("steak", "meat", "steak", "beef"),

		// Seafood
		item("salmon", "seafood", "salmon"),
		item("shrimp", "seafood", "shrimp"),
		item("tuna", "seafood", "tuna"),
		item("cod", "seafood", "cod"),
		item("lobster", "seafood", "lobster"),

		// Produce: vegetables
		item("lettuce", "produce", "lettuce"),
		item("tomatoes", "produce", "tomato", "tomatoes"),
		item("carrots", "produce", "carrot", "carrots"),
		item("broccoli", "produce", "broccoli"),
		item("spinach", "produce", "spinach"),
		item("onions", "produce", "onion", "onions"),
		item("potatoes", "produce", "potato", "potatoes"),
		item("bell peppers", "produce", "pepper", "peppers"),

		// Produce: fruit
		item("apples", "produce", "apple", "apples"),
		item("bananas", "produce", "banana", "bananas"),
		item("oranges", "produce", "orange", "oranges"),
		item("strawberries", "produce", "strawberry", "strawberries"),
		item("grapes", "produce", "grape", "grapes"),
		item("blueberries", "produce", "blueberry", "blueberries"),

		// Baked goods
		item("bread", "baked", "bread"),
		item("bagels", "baked", "bagel", "bagels"),
		item("muffins", "baked", "muffin", "muffins"),

		// Frozen
		item("ice cream", "frozen", "ice cream"),
		item("frozen pizza", "frozen", "pizza"),
		item("frozen vegetables", "frozen", "vegetables", "frozen"),

		// Condiments
		item("ketchup", "condiments", "ketchup"),
		item("mayonnaise", "condiments", "mayonnaise", "mayo"),
		item("mustard", "condiments", "mustard"),
		item("soy sauce", "condiments", "soy sauce"),

		// Beverages
		item("orange juice", "beverages", "juice", "orange"),
		item("apple juice", "beverages", "juice", "apple"),
		item("milk alternative", "beverages", "almond milk", "soy milk"),

		// Deli
		item("deli ham", "deli", "ham", "deli"),
		item("turkey slices", "deli", "turkey"),
		item("salami", "deli", "salami"),

		// Pantry staples
		item("rice", "pantry", "rice"),
		item("pasta", "pantry", "pasta"),
		item("flour", "pantry", "flour"),
		item("sugar", "pantry", "sugar"),
		item("cooking oil", "pantry", "oil"),
	}
}
