package model

const unsplashParams = "?auto=format&fit=crop&q=80&w=400"

func unsplash(photo string) string {
	return "https://images.unsplash.com/" + photo + unsplashParams
}

// FallbackCatalog returns the built-in menu used when the remote store is not
// configured or cannot be read. Every call returns a fresh copy.
func FallbackCatalog() []Product {
	return []Product{
		{ID: "1", Name: "Nasi Goreng Special", Price: 25000, Image: unsplash("photo-1601050638917-3f30956273c1"), Category: CategoryFood, Stock: 49, Available: true},
		{ID: "2", Name: "Ayam Bakar Madu", Price: 30000, Image: unsplash("photo-1598515214211-89d3c73ae83b"), Category: CategoryFood, Stock: 20, Available: true},
		{ID: "3", Name: "Cheese Burger", Price: 35000, Image: unsplash("photo-1571091718767-18b5b1457add"), Category: CategoryFood, Stock: 15, Available: true},
		{ID: "4", Name: "Mie Ayam Jamur", Price: 18000, Image: unsplash("photo-1612929633738-8fe44f7ec841"), Category: CategoryFood, Stock: 0, Available: false},
		{ID: "5", Name: "Es Teh Manis", Price: 5000, Image: unsplash("photo-1556679343-c7306c1976bc"), Category: CategoryDrinks, Stock: 100, Available: true},
		{ID: "6", Name: "Crispy Wings", Price: 22000, Image: unsplash("photo-1567620832903-9fc6debc209f"), Category: CategorySnack, Stock: 12, Available: true},
		{ID: "7", Name: "Chocolate Milkshake", Price: 15000, Image: unsplash("photo-1572490122747-3968b75cc699"), Category: CategoryDrinks, Stock: 25, Available: true},
		{ID: "8", Name: "Fresh Orange Juice", Price: 12000, Image: unsplash("photo-1613478223719-2ab802602423"), Category: CategoryDrinks, Stock: 30, Available: true},
	}
}
