package domain

// Product is read-only reference data offered to clients when composing a
// storage request. PricePerUnit is the basis for the amount charged on a
// storage record (amount = price × quantity).
type Product struct {
	ID           string  `json:"id" bson:"_id,omitempty"`
	Name         string  `json:"product_name" bson:"product_name"`
	Description  string  `json:"description" bson:"description"`
	PricePerUnit float64 `json:"price_per_unit" bson:"price_per_unit"`
}
