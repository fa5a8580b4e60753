package schema

import "time"

const CheckoutSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "checkout",
	"fields": [
		{"name": "order_id", "type": "string"},
		{"name": "email", "type": "string"},
		{"name": "total", "type": "double"},
		{"name": "created_at", "type": {"type": "long", "logicalType": "timestamp-millis"}},
		{"name": "items", "type": {
			"type": "array",
			"items": {
				"type": "record",
				"name": "checkout_item",
				"fields": [
					{"name": "product_id", "type": "long"},
					{"name": "name", "type": "string"},
					{"name": "price", "type": "double"},
					{"name": "quantity", "type": "int"}
				]
			}
		}}
	]
}`

type (
	CheckoutV1 struct {
		OrderID   string           `avro:"order_id"`
		Email     string           `avro:"email"`
		Total     float64          `avro:"total"`
		CreatedAt time.Time        `avro:"created_at"`
		Items     []CheckoutItemV1 `avro:"items"`
	}

	CheckoutItemV1 struct {
		ProductID int64   `avro:"product_id"`
		Name      string  `avro:"name"`
		Price     float64 `avro:"price"`
		Quantity  int     `avro:"quantity"`
	}
)

const FeedbackSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "feedback",
	"fields": [
		{"name": "product_id", "type": "long"},
		{"name": "liked", "type": "boolean"},
		{"name": "rating", "type": "int"}
	]
}`

type FeedbackV1 struct {
	ProductID int64 `avro:"product_id"`
	Liked     bool  `avro:"liked"`
	Rating    int   `avro:"rating"`
}
