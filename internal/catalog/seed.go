package catalog

import "github.com/angelmondragon/minishop/pkg/money"

var seedProducts = []Product{
	{
		ID:          "1",
		Name:        "Wireless Headphones",
		Price:       money.MustParse("79.99"),
		Description: "Premium noise-cancelling wireless headphones",
		Image:       "/wireless-headphones.png",
		Category:    "Electronics",
	},
	{
		ID:          "2",
		Name:        "Smart Watch",
		Price:       money.MustParse("199.99"),
		Description: "Advanced fitness tracking smartwatch",
		Image:       "/smartwatch-lifestyle.png",
		Category:    "Electronics",
	},
	{
		ID:          "3",
		Name:        "USB-C Cable",
		Price:       money.MustParse("12.99"),
		Description: "Durable 2-meter USB-C charging cable",
		Image:       "/usb-cable.png",
		Category:    "Accessories",
	},
	{
		ID:          "4",
		Name:        "Portable Charger",
		Price:       money.MustParse("34.99"),
		Description: "20000mAh portable power bank",
		Image:       "/portable-charger-lifestyle.png",
		Category:    "Accessories",
	},
	{
		ID:          "5",
		Name:        "Mechanical Keyboard",
		Price:       money.MustParse("129.99"),
		Description: "RGB mechanical gaming keyboard",
		Image:       "/mechanical-keyboard.png",
		Category:    "Electronics",
	},
	{
		ID:          "6",
		Name:        "Wireless Mouse",
		Price:       money.MustParse("49.99"),
		Description: "Ergonomic wireless mouse with precision tracking",
		Image:       "/wireless-mouse.png",
		Category:    "Accessories",
	},
	{
		ID:          "7",
		Name:        "4K Webcam",
		Price:       money.MustParse("89.99"),
		Description: "Ultra HD webcam for streaming and video calls",
		Image:       "/classic-webcam.png",
		Category:    "Electronics",
	},
	{
		ID:          "8",
		Name:        "Phone Stand",
		Price:       money.MustParse("19.99"),
		Description: "Adjustable phone stand for desk",
		Image:       "/phone-stand.jpg",
		Category:    "Accessories",
	},
}

// Default returns the storefront's seeded catalog.
func Default() *Catalog {
	c, err := New(seedProducts)
	if err != nil {
		panic(err)
	}
	return c
}
