package sales

import (
	"fmt"
	"strconv"
	"time"

	"salesflow/internal/shopify"
	"salesflow/logger"
)

// NormalizeOrders flattens raw orders into classified rows. Cancelled,
// fully refunded and voided orders are dropped whole; per line item the
// refunded quantity is subtracted, and a row only survives with a
// positive net quantity.
func NormalizeOrders(orders []shopify.Order) []Row {
	log := logger.GetLogger().WithComponent("normalizer")

	var rows []Row
	for _, order := range orders {
		if order.CancelledAt != nil {
			continue
		}
		if order.FinancialStatus == "refunded" || order.FinancialStatus == "voided" {
			continue
		}
		if order.CreatedAt == "" {
			continue
		}

		createdAt, err := time.Parse(time.RFC3339, order.CreatedAt)
		if err != nil {
			log.WithError(err).WithFields(logger.Fields{"order": order.Name}).Warn("unparseable order date, skipping")
			continue
		}

		country, state, city := geography(order.ShippingAddress)
		channel := order.SourceName
		if channel == "" {
			channel = "web"
		}
		fulfillment := order.FulfillmentStatus
		if fulfillment == "" {
			fulfillment = "unfulfilled"
		}

		for _, item := range order.LineItems {
			net := item.Quantity - refundedQuantity(order.Refunds, item.ID)
			if net <= 0 {
				continue
			}

			price := parseAmount(item.Price)
			category, show := Classify(item.Title, item.SKU)

			rows = append(rows, Row{
				OrderNumber:        order.Name,
				OrderID:            order.ID,
				OrderDate:          order.CreatedAt,
				OrderDateFormatted: createdAt.Format("2006-01-02"),
				Month:              createdAt.Format("2006-01"),
				Quarter:            fmt.Sprintf("%d-Q%d", createdAt.Year(), (int(createdAt.Month())-1)/3+1),
				Year:               strconv.Itoa(createdAt.Year()),
				ProductTitle:       item.Title,
				VariantTitle:       item.VariantTitle,
				SKU:                item.SKU,
				Vendor:             item.Vendor,
				ProductID:          item.ProductID,
				Category:           category,
				ShowName:           show,
				Quantity:           net,
				UnitPrice:          price,
				LineTotal:          price * float64(net),
				Currency:           currencyOrDefault(order.Currency),
				FinancialStatus:    order.FinancialStatus,
				FulfillmentStatus:  fulfillment,
				Country:            country,
				State:              state,
				City:               city,
				SalesChannel:       channel,
				CustomerEmail:      order.Email,
			})
		}
	}

	logger.AddRowsNormalized(len(rows))
	return rows
}

// refundedQuantity sums the refunded units referencing one line item
// across every refund record on the order.
func refundedQuantity(refunds []shopify.Refund, lineItemID int64) int {
	total := 0
	for _, refund := range refunds {
		for _, rli := range refund.RefundLineItems {
			if rli.LineItemID == lineItemID {
				total += rli.Quantity
			}
		}
	}
	return total
}

// geography falls back from the full province/country name to the code,
// then to empty strings. Never nil, never "null".
func geography(addr *shopify.Address) (country, state, city string) {
	if addr == nil {
		return "", "", ""
	}
	country = addr.Country
	if country == "" {
		country = addr.CountryCode
	}
	state = addr.Province
	if state == "" {
		state = addr.ProvinceCode
	}
	return country, state, addr.City
}

func currencyOrDefault(currency string) string {
	if currency == "" {
		return "USD"
	}
	return currency
}

func parseAmount(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
