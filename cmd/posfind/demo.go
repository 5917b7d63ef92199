package main

import (
	"github.com/poiesic/posfind/core"
	"github.com/poiesic/posfind/ingestion"
)

// demoCatalog is a small furniture and café catalog used by the seed command.
func demoCatalog() *ingestion.Catalog {
	const (
		furniture   core.ID = 1
		chairs      core.ID = 2
		desks       core.ID = 3
		food        core.ID = 4
		drinks      core.ID = 5
		hotDrinks   core.ID = 6
		accessories core.ID = 7
	)

	return &ingestion.Catalog{
		Categories: []*core.Category{
			{Id: furniture, Name: "Furniture"},
			{Id: chairs, Name: "Chairs", ParentId: furniture},
			{Id: desks, Name: "Desks", ParentId: furniture},
			{Id: food, Name: "Food"},
			{Id: drinks, Name: "Drinks"},
			{Id: hotDrinks, Name: "Hot Drinks", ParentId: drinks},
			{Id: accessories, Name: "Accessories"},
		},
		Products: []*core.Product{
			{Id: 101, Name: "Office Chair", DefaultCode: "FURN_0001", Barcode: "5400000000017", CategoryIds: []core.ID{chairs}, Available: true},
			{Id: 102, Name: "Office Chair Black", DefaultCode: "FURN_0002", CategoryIds: []core.ID{chairs}, Available: true},
			{Id: 103, Name: "Conference Chair", DefaultCode: "FURN_0003", CategoryIds: []core.ID{chairs}, Available: false},
			{Id: 104, Name: "Chair Cushion", DefaultCode: "FURN_0004", CategoryIds: []core.ID{furniture, accessories}, Available: true},
			{Id: 105, Name: "Large Desk", DefaultCode: "FURN_0010", CategoryIds: []core.ID{desks}, Available: true},
			{Id: 106, Name: "Corner Desk Left Sit", DefaultCode: "FURN_0011", CategoryIds: []core.ID{desks}, Available: true},
			{Id: 107, Name: "Desk Organizer", DefaultCode: "FURN_0012", CategoryIds: []core.ID{desks, accessories}, Available: true},
			{Id: 108, Name: "Crème Brûlée", CategoryIds: []core.ID{food}, Available: true},
			{Id: 109, Name: "Chocolate Cake", CategoryIds: []core.ID{food}, Available: true},
			{Id: 110, Name: "Café Latte", CategoryIds: []core.ID{hotDrinks}, Available: true},
			{Id: 111, Name: "Café Noir", CategoryIds: []core.ID{hotDrinks}, Available: true},
			{Id: 112, Name: "Iced Coffee", CategoryIds: []core.ID{drinks}, Available: true},
			{Id: 113, Name: "Coffee Cup", Barcode: "5400000000024", CategoryIds: []core.ID{accessories}, Available: true},
			{Id: 114, Name: "Cup Holder", CategoryIds: []core.ID{accessories}, Available: true},
		},
	}
}
