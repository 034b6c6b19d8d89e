// Package compare reconciles the storefront catalog against the OMS:
// which SKUs exist on which side, and where the inventory counts
// disagree.
package compare

import (
	"sort"
	"strings"

	"salesflow/internal/amplifier"
	"salesflow/internal/shopify"
)

// ShopifyEntry is the storefront's view of one SKU.
type ShopifyEntry struct {
	ProductTitle string
	VariantTitle string
	Price        string
	Inventory    int
}

// AmplifierEntry is the OMS's view of one SKU.
type AmplifierEntry struct {
	Name         string
	Discontinued bool
	OnHand       int
	Available    int
}

// Mismatch is a SKU present on both sides whose inventory counts
// disagree (storefront quantity vs OMS on-hand).
type Mismatch struct {
	SKU          string
	ShopifyQty   int
	AmplifierQty int
}

// Report is the full reconciliation of one catalog pull.
type Report struct {
	Shopify   map[string]ShopifyEntry
	Amplifier map[string]AmplifierEntry

	Both          []string
	OnlyShopify   []string
	OnlyAmplifier []string
	Mismatches    []Mismatch

	ShopifyInventory   int
	AmplifierInventory int
}

// Build indexes both catalogs by trimmed SKU and diffs them. Variants
// and items without a SKU are skipped; they cannot be reconciled.
func Build(products []shopify.Product, items []amplifier.Item) *Report {
	r := &Report{
		Shopify:   make(map[string]ShopifyEntry),
		Amplifier: make(map[string]AmplifierEntry),
	}

	for _, product := range products {
		for _, variant := range product.Variants {
			sku := strings.TrimSpace(variant.SKU)
			if sku == "" {
				continue
			}
			r.Shopify[sku] = ShopifyEntry{
				ProductTitle: product.Title,
				VariantTitle: variant.Title,
				Price:        variant.Price,
				Inventory:    variant.InventoryQuantity,
			}
			r.ShopifyInventory += variant.InventoryQuantity
		}
	}

	for _, item := range items {
		sku := strings.TrimSpace(item.SKU)
		if sku == "" {
			continue
		}
		r.Amplifier[sku] = AmplifierEntry{
			Name:         item.Name,
			Discontinued: item.Discontinued,
			OnHand:       item.Inventory.QuantityOnHand,
			Available:    item.Inventory.QuantityAvailable,
		}
		r.AmplifierInventory += item.Inventory.QuantityOnHand
	}

	for sku, se := range r.Shopify {
		ae, ok := r.Amplifier[sku]
		if !ok {
			r.OnlyShopify = append(r.OnlyShopify, sku)
			continue
		}
		r.Both = append(r.Both, sku)
		if se.Inventory != ae.OnHand {
			r.Mismatches = append(r.Mismatches, Mismatch{
				SKU:          sku,
				ShopifyQty:   se.Inventory,
				AmplifierQty: ae.OnHand,
			})
		}
	}
	for sku := range r.Amplifier {
		if _, ok := r.Shopify[sku]; !ok {
			r.OnlyAmplifier = append(r.OnlyAmplifier, sku)
		}
	}

	sort.Strings(r.Both)
	sort.Strings(r.OnlyShopify)
	sort.Strings(r.OnlyAmplifier)
	sort.Slice(r.Mismatches, func(i, j int) bool { return r.Mismatches[i].SKU < r.Mismatches[j].SKU })

	return r
}
