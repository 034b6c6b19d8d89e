package compare

import (
	"testing"

	"salesflow/internal/amplifier"
	"salesflow/internal/shopify"
)

func TestBuild(t *testing.T) {
	products := []shopify.Product{
		{
			Title: "HP3 Program Book",
			Variants: []shopify.Variant{
				{SKU: "HP3USABOOK", Title: "Default", Price: "12.00", InventoryQuantity: 40},
				{SKU: "HP3UKBOOK", Price: "10.00", InventoryQuantity: 15},
				{SKU: "", InventoryQuantity: 99}, // no SKU, skipped
			},
		},
		{
			Title: "Elf Hoodie",
			Variants: []shopify.Variant{
				{SKU: "ELF1HOOD", Price: "45.00", InventoryQuantity: 8},
			},
		},
	}
	items := []amplifier.Item{
		{SKU: "HP3USABOOK", Name: "HP3 Book (US)", Inventory: amplifier.ItemInventory{QuantityOnHand: 38, QuantityAvailable: 35}},
		{SKU: "POLARBOOK", Name: "Polar Express Book", Inventory: amplifier.ItemInventory{QuantityOnHand: 20, QuantityAvailable: 20}},
		{SKU: "  ", Name: "blank sku"},
	}

	r := Build(products, items)

	if len(r.Shopify) != 3 || len(r.Amplifier) != 2 {
		t.Fatalf("index sizes wrong: shopify=%d amplifier=%d", len(r.Shopify), len(r.Amplifier))
	}
	if len(r.Both) != 1 || r.Both[0] != "HP3USABOOK" {
		t.Errorf("both: %v", r.Both)
	}
	if len(r.OnlyShopify) != 2 || r.OnlyShopify[0] != "ELF1HOOD" || r.OnlyShopify[1] != "HP3UKBOOK" {
		t.Errorf("only shopify: %v", r.OnlyShopify)
	}
	if len(r.OnlyAmplifier) != 1 || r.OnlyAmplifier[0] != "POLARBOOK" {
		t.Errorf("only amplifier: %v", r.OnlyAmplifier)
	}
	if r.ShopifyInventory != 63 || r.AmplifierInventory != 58 {
		t.Errorf("inventory totals: shopify=%d amplifier=%d", r.ShopifyInventory, r.AmplifierInventory)
	}
	if len(r.Mismatches) != 1 || r.Mismatches[0].SKU != "HP3USABOOK" || r.Mismatches[0].ShopifyQty != 40 || r.Mismatches[0].AmplifierQty != 38 {
		t.Errorf("mismatches: %+v", r.Mismatches)
	}
}
