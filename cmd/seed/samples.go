package main

import (
	"time"

	"petshop/internal/models"
)

var sampleProducts = []models.Product{
	{Name: "Royal Canin Adult Dog Food", Description: "Complete food for medium breed adult dogs aged 1 to 7 years.", Price: 890, Category: "dog", Stock: 50, Image: "/images/products/dog-food.png"},
	{Name: "Rubber Ball Dog Toy", Description: "Durable high quality rubber ball for play and training.", Price: 150, Category: "dog", Stock: 100},
	{Name: "LED Dog Collar", Description: "Glowing collar visible in the dark, USB rechargeable.", Price: 350, Category: "dog", Stock: 30},
	{Name: "Gentle Dog Shampoo", Description: "Mild formula that does not irritate skin, long lasting scent.", Price: 280, Category: "dog", Stock: 45},
	{Name: "Whiskas Mackerel Cat Food", Description: "Adult cat food rich in protein and vitamins.", Price: 250, Category: "cat", Stock: 80, Image: "/images/products/cat-food.png"},
	{Name: "Premium Dust Free Cat Litter", Description: "Clumps well and controls odour.", Price: 320, Category: "cat", Stock: 60},
	{Name: "Three Level Cat Condo", Description: "Cat tower with scratching post, bed and toys.", Price: 1890, Category: "cat", Stock: 15},
	{Name: "Feather Wand Cat Toy", Description: "Teaser wand with feathers that triggers hunting instinct.", Price: 120, Category: "cat", Stock: 150, Image: "/images/products/cat-toy.png"},
	{Name: "Parrot Fruit Mix", Description: "Parrot food with mixed fruit, vitamins and minerals.", Price: 180, Category: "bird", Stock: 40},
	{Name: "Medium Bird Cage", Description: "Plated steel cage with a pull out tray.", Price: 750, Category: "bird", Stock: 20, Image: "/images/products/bird-cage.png"},
	{Name: "Tropical Fish Flakes", Description: "Flake food that brings out the colours of ornamental fish.", Price: 85, Category: "fish", Stock: 100},
	{Name: "24 Inch Glass Aquarium", Description: "Clear glass tank with lid and LED light.", Price: 1200, Category: "fish", Stock: 10},
	{Name: "Pet Carrier Bag", Description: "Lightweight carrier with good ventilation.", Price: 590, Category: "other", Stock: 25, Image: "/images/products/pet-bag.png"},
	{Name: "Absorbent Pet Pads", Description: "Leak proof absorbent pads, pack of 50.", Price: 299, Category: "other", Stock: 70},
	{Name: "Pet Multivitamin", Description: "Supports immunity and a glossy coat.", Price: 450, Category: "other", Stock: 35},
}

func date(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func sampleAccounts(adminPassword string) []account {
	return []account{
		{
			user: models.User{
				Name:     "Admin",
				LastName: "User",
				Email:    "admin@petshop.local",
				Role:     models.RoleAdmin,
				Phone:    "0812345678",
				Birthday: date(1990, time.January, 1),
			},
			password: adminPassword,
		},
		{
			user: models.User{
				Name:     "Test",
				LastName: "User",
				Email:    "user@petshop.local",
				Role:     models.RoleUser,
				Phone:    "0898765432",
				Birthday: date(2000, time.January, 1),
			},
			password: "user123",
		},
	}
}
