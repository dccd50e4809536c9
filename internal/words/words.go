// Package words holds the built-in word categories. Each category pairs a
// pool of secret words with an independent pool of hint strings handed to
// imposters when the room enables hints.
package words

import "math/rand"

type Category struct {
	Words []string
	Hints []string
}

var categories = map[string]Category{
	"Movies": {
		Words: []string{
			"Titanic", "Inception", "Avatar", "Frozen", "Jaws",
			"Gladiator", "Matrix", "Shrek", "Godfather", "Jurassic Park",
			"Star Wars", "Avengers", "Joker", "Batman", "Spider-Man",
			"Forrest Gump", "Pulp Fiction", "Fight Club", "Interstellar", "Gravity",
		},
		Hints: []string{"Entertainment", "Cinema", "Film", "Hollywood", "Blockbuster"},
	},
	"Places": {
		Words: []string{
			"Paris", "Tokyo", "New York", "London", "Sydney",
			"Rome", "Dubai", "Singapore", "Barcelona", "Amsterdam",
			"Las Vegas", "Hawaii", "Maldives", "Venice", "Cairo",
			"Moscow", "Rio", "Miami", "Berlin", "Toronto",
		},
		Hints: []string{"Location", "Geography", "Destination", "Travel", "City"},
	},
	"Objects": {
		Words: []string{
			"Umbrella", "Telescope", "Scissors", "Candle", "Mirror",
			"Clock", "Lamp", "Piano", "Guitar", "Camera",
			"Bicycle", "Skateboard", "Surfboard", "Microphone", "Headphones",
			"Sunglasses", "Wallet", "Backpack", "Laptop", "Phone",
		},
		Hints: []string{"Thing", "Item", "Tool", "Gadget", "Equipment"},
	},
	"Food": {
		Words: []string{
			"Pizza", "Sushi", "Burger", "Taco", "Pasta",
			"Croissant", "Ramen", "Steak", "Salad", "Pancakes",
			"Ice Cream", "Chocolate", "Popcorn", "Donut", "Waffles",
			"Curry", "Burrito", "Dim Sum", "Fondue", "Paella",
		},
		Hints: []string{"Cuisine", "Meal", "Dish", "Snack", "Delicacy"},
	},
	"Games": {
		Words: []string{
			"Chess", "Monopoly", "Poker", "Tetris", "Mario",
			"Minecraft", "Fortnite", "Soccer", "Basketball", "Tennis",
			"Golf", "Bowling", "Darts", "Pool", "Jenga",
			"Scrabble", "Uno", "Twister", "Charades", "Pictionary",
		},
		Hints: []string{"Recreation", "Sport", "Activity", "Competition", "Entertainment"},
	},
	"Animals": {
		Words: []string{
			"Elephant", "Penguin", "Dolphin", "Tiger", "Giraffe",
			"Kangaroo", "Octopus", "Flamingo", "Peacock", "Panda",
			"Koala", "Gorilla", "Cheetah", "Owl", "Eagle",
			"Shark", "Whale", "Jellyfish", "Butterfly", "Chameleon",
		},
		Hints: []string{"Creature", "Wildlife", "Nature", "Living thing", "Species"},
	},
	"Professions": {
		Words: []string{
			"Doctor", "Astronaut", "Chef", "Pilot", "Detective",
			"Firefighter", "Teacher", "Scientist", "Artist", "Musician",
			"Actor", "Photographer", "Architect", "Engineer", "Lawyer",
			"Nurse", "Veterinarian", "Journalist", "Athlete", "Dancer",
		},
		Hints: []string{"Career", "Occupation", "Job", "Work", "Profession"},
	},
	"Technology": {
		Words: []string{
			"Robot", "Drone", "Satellite", "Laser", "Hologram",
			"Virtual Reality", "Cryptocurrency", "Algorithm", "Firewall", "Cloud",
			"Bluetooth", "WiFi", "GPS", "Touchscreen", "3D Printer",
			"Electric Car", "Solar Panel", "Smart Watch", "Alexa", "Tesla",
		},
		Hints: []string{"Innovation", "Digital", "Future", "Science", "Invention"},
	},
}

// AllCategories lists the known category names.
func AllCategories() []string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	return names
}

// IsKnown reports whether a category name exists.
func IsKnown(name string) bool {
	_, ok := categories[name]
	return ok
}

// Draw picks a uniform category among the given names, then a uniform word
// and an independent uniform hint from that category's pools. Unknown names
// are skipped; with no valid name it falls back to Objects.
func Draw(names []string) (word, hint, category string) {
	valid := make([]string, 0, len(names))
	for _, name := range names {
		if IsKnown(name) {
			valid = append(valid, name)
		}
	}
	if len(valid) == 0 {
		valid = append(valid, "Objects")
	}
	category = valid[rand.Intn(len(valid))]
	pool := categories[category]
	word = pool.Words[rand.Intn(len(pool.Words))]
	hint = pool.Hints[rand.Intn(len(pool.Hints))]
	return word, hint, category
}
