// Package docs holds the OpenAPI document served under /swagger. It follows
// the swag output layout; regenerate it with `go generate ./cmd/storefront`
// after changing handler annotations. TestSwaggerDocCoversRoutes fails when a
// route is missing from it.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/orders/{orderId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Get a placed order",
                "parameters": [
                    {"type": "string", "description": "Order ID, e.g. ORD-100000", "name": "orderId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Order"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/orders/{orderId}/tracking": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tracking"],
                "summary": "Track an order",
                "parameters": [
                    {"type": "string", "description": "Order ID, e.g. ORD-12345", "name": "orderId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.TrackingRecord"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/products": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "List products",
                "parameters": [
                    {"type": "string", "description": "Name contains", "name": "q", "in": "query"},
                    {"type": "string", "description": "Category contains", "name": "category", "in": "query"},
                    {"type": "integer", "description": "Min effective price", "name": "min_price", "in": "query"},
                    {"type": "integer", "description": "Max effective price", "name": "max_price", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Product"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/products/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Get product by id",
                "parameters": [
                    {"type": "integer", "description": "Product ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Product"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/sessions": {
            "post": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Open a shopping session",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/service.Snapshot"}}
                }
            }
        },
        "/sessions/{sid}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Session badge counts",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sid", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Snapshot"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "delete": {
                "tags": ["sessions"],
                "summary": "Close a session",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sid", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/sessions/{sid}/cart": {
            "get": {
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Cart contents and totals",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sid", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.CartView"}}
                }
            }
        },
        "/sessions/{sid}/cart/dismiss": {
            "post": {
                "tags": ["cart"],
                "summary": "Close the cart drawer",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sid", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/sessions/{sid}/cart/items": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Add to cart",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sid", "in": "path", "required": true},
                    {"description": "Item", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/httpapi.addItemReq"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/service.CartView"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/sessions/{sid}/cart/items/{productId}": {
            "put": {
                "description": "Quantities below 1 are ignored.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Set line quantity",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sid", "in": "path", "required": true},
                    {"type": "integer", "description": "Product ID", "name": "productId", "in": "path", "required": true},
                    {"description": "Quantity", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/httpapi.updateItemReq"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.CartView"}}
                }
            },
            "delete": {
                "description": "With size and color only that line is removed.",
                "produces": ["application/json"],
                "tags": ["cart"],
                "summary": "Remove a product from the cart",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sid", "in": "path", "required": true},
                    {"type": "integer", "description": "Product ID", "name": "productId", "in": "path", "required": true},
                    {"type": "string", "description": "Line size", "name": "size", "in": "query"},
                    {"type": "string", "description": "Line color", "name": "color", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.CartView"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/sessions/{sid}/category": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["browse"],
                "summary": "Filter by category",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sid", "in": "path", "required": true},
                    {"description": "Category", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/httpapi.categoryReq"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Browse"}}
                }
            }
        },
        "/sessions/{sid}/chat": {
            "get": {
                "produces": ["application/json"],
                "tags": ["support"],
                "summary": "Chat transcript",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sid", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.ChatMessage"}}}
                }
            },
            "post": {
                "description": "The bot reply arrives later as a chat-reply notification.",
                "consumes": ["application/json"],
                "tags": ["support"],
                "summary": "Send a chat message",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sid", "in": "path", "required": true},
                    {"description": "Message", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/httpapi.chatReq"}}
                ],
                "responses": {
                    "202": {"description": "Accepted"},
                    "204": {"description": "No Content"}
                }
            }
        },
        "/sessions/{sid}/chat/faq": {
            "get": {
                "produces": ["application/json"],
                "tags": ["support"],
                "summary": "Predefined questions",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sid", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/service.FAQ"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["support"],
                "summary": "Ask a predefined question",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sid", "in": "path", "required": true},
                    {"description": "Question", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/httpapi.faqReq"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.ChatMessage"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/sessions/{sid}/checkout": {
            "post": {
                "description": "Starts checkout. With wait=true the response carries the placed order.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["checkout"],
                "summary": "Place an order",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sid", "in": "path", "required": true},
                    {"type": "boolean", "description": "Wait for the order", "name": "wait", "in": "query"},
                    {"description": "Checkout form", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.CheckoutForm"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Order"}},
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/service.Snapshot"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["checkout"],
                "summary": "Cancel a pending checkout",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sid", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "boolean"}}}
                }
            }
        },
        "/sessions/{sid}/events": {
            "get": {
                "description": "Server-sent events; one \"snapshot\" event now and one per change.",
                "produces": ["text/event-stream"],
                "tags": ["sessions"],
                "summary": "Stream badge counts",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sid", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Snapshot"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/sessions/{sid}/newsletter": {
            "post": {
                "consumes": ["application/json"],
                "tags": ["support"],
                "summary": "Subscribe to the newsletter",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sid", "in": "path", "required": true},
                    {"description": "Email", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/httpapi.newsletterReq"}}
                ],
                "responses": {
                    "202": {"description": "Accepted"},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/sessions/{sid}/notifications": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Drain notifications",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sid", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Notification"}}}
                }
            }
        },
        "/sessions/{sid}/search": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["browse"],
                "summary": "Search the catalog",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sid", "in": "path", "required": true},
                    {"description": "Query", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/httpapi.searchReq"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Browse"}}
                }
            }
        },
        "/sessions/{sid}/shelves": {
            "get": {
                "produces": ["application/json"],
                "tags": ["browse"],
                "summary": "Visible shelves",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sid", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Browse"}}
                }
            }
        },
        "/sessions/{sid}/shelves/active": {
            "put": {
                "consumes": ["application/json"],
                "tags": ["browse"],
                "summary": "Switch the focused shelf",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sid", "in": "path", "required": true},
                    {"description": "Shelf", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/httpapi.activeShelfReq"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/sessions/{sid}/wishlist": {
            "get": {
                "produces": ["application/json"],
                "tags": ["wishlist"],
                "summary": "Wishlist contents",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sid", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.WishlistEntry"}}}
                }
            }
        },
        "/sessions/{sid}/wishlist/{productId}": {
            "post": {
                "produces": ["application/json"],
                "tags": ["wishlist"],
                "summary": "Toggle a wishlist entry",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sid", "in": "path", "required": true},
                    {"type": "integer", "description": "Product ID", "name": "productId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "boolean"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "domain.CartLine": {
            "type": "object",
            "properties": {
                "color": {"type": "string"},
                "product": {"$ref": "#/definitions/domain.Product"},
                "quantity": {"type": "integer"},
                "size": {"type": "string"}
            }
        },
        "domain.ChatMessage": {
            "type": "object",
            "properties": {
                "at": {"type": "string"},
                "content": {"type": "string"},
                "id": {"type": "integer"},
                "is_user": {"type": "boolean"}
            }
        },
        "domain.CheckoutForm": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "card_cvc": {"type": "string"},
                "card_expiry": {"type": "string"},
                "card_number": {"type": "string"},
                "city": {"type": "string"},
                "country": {"type": "string"},
                "email": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "payment_method": {"type": "string", "enum": ["credit", "bank"]},
                "phone": {"type": "string"},
                "postal_code": {"type": "string"},
                "state": {"type": "string"}
            }
        },
        "domain.Notification": {
            "type": "object",
            "properties": {
                "at": {"type": "string"},
                "description": {"type": "string"},
                "kind": {
                    "type": "string",
                    "enum": ["item-added", "item-removed", "wishlist-added", "wishlist-removed", "order-placed", "validation-error", "empty-cart-redirect", "chat-reply", "newsletter-subscribed"]
                },
                "order_id": {"type": "string"},
                "session_id": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "domain.Order": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "id": {"type": "string"},
                "lines": {"type": "array", "items": {"$ref": "#/definitions/domain.CartLine"}},
                "payment_method": {"type": "string", "enum": ["credit", "bank"]},
                "shipping_address": {"type": "string"},
                "totals": {"$ref": "#/definitions/domain.Totals"}
            }
        },
        "domain.Product": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "colors": {"type": "array", "items": {"type": "string"}},
                "discount_price": {"type": "integer"},
                "id": {"type": "integer"},
                "image_url": {"type": "string"},
                "is_new": {"type": "boolean"},
                "is_sale": {"type": "boolean"},
                "name": {"type": "string"},
                "price": {"type": "integer"}
            }
        },
        "domain.Shelf": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "products": {"type": "array", "items": {"$ref": "#/definitions/domain.Product"}}
            }
        },
        "domain.Totals": {
            "type": "object",
            "properties": {
                "shipping": {"type": "integer"},
                "subtotal": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "domain.TrackedItem": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "price": {"type": "integer"},
                "quantity": {"type": "integer"}
            }
        },
        "domain.TrackingEvent": {
            "type": "object",
            "properties": {
                "completed": {"type": "boolean"},
                "date": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "domain.TrackingRecord": {
            "type": "object",
            "properties": {
                "current_location": {"type": "string"},
                "estimated_delivery": {"type": "string"},
                "events": {"type": "array", "items": {"$ref": "#/definitions/domain.TrackingEvent"}},
                "items": {"type": "array", "items": {"$ref": "#/definitions/domain.TrackedItem"}},
                "order_date": {"type": "string"},
                "order_id": {"type": "string"},
                "progress_percentage": {"type": "integer"},
                "status": {"type": "string", "enum": ["processing", "shipping", "delivered"]}
            }
        },
        "domain.WishlistEntry": {
            "type": "object",
            "properties": {
                "product": {"$ref": "#/definitions/domain.Product"}
            }
        },
        "httpapi.activeShelfReq": {
            "type": "object",
            "properties": {
                "shelf": {"type": "string"}
            }
        },
        "httpapi.addItemReq": {
            "type": "object",
            "properties": {
                "color": {"type": "string"},
                "product_id": {"type": "integer"},
                "quantity": {"type": "integer"},
                "quick": {"description": "Quick adds one unit with the default size and first color.", "type": "boolean"},
                "size": {"type": "string"}
            }
        },
        "httpapi.categoryReq": {
            "type": "object",
            "properties": {
                "category": {"type": "string"}
            }
        },
        "httpapi.chatReq": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "httpapi.faqReq": {
            "type": "object",
            "properties": {
                "question": {"type": "string"}
            }
        },
        "httpapi.newsletterReq": {
            "type": "object",
            "properties": {
                "email": {"type": "string"}
            }
        },
        "httpapi.searchReq": {
            "type": "object",
            "properties": {
                "query": {"type": "string"}
            }
        },
        "httpapi.updateItemReq": {
            "type": "object",
            "properties": {
                "color": {"type": "string"},
                "quantity": {"type": "integer"},
                "size": {
                    "description": "Size and Color select a single line; without them every line of the\nproduct is updated.",
                    "type": "string"
                }
            }
        },
        "service.Browse": {
            "type": "object",
            "properties": {
                "active_shelf": {"type": "string"},
                "category": {"type": "string"},
                "has_results": {"type": "boolean"},
                "query": {"type": "string"},
                "shelves": {"type": "array", "items": {"$ref": "#/definitions/domain.Shelf"}}
            }
        },
        "service.CartView": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "lines": {"type": "array", "items": {"$ref": "#/definitions/domain.CartLine"}},
                "open": {"type": "boolean"},
                "shipping_label": {"type": "string"},
                "totals": {"$ref": "#/definitions/domain.Totals"}
            }
        },
        "service.FAQ": {
            "type": "object",
            "properties": {
                "answer": {"type": "string"},
                "question": {"type": "string"}
            }
        },
        "service.Snapshot": {
            "type": "object",
            "properties": {
                "cart_count": {"type": "integer"},
                "cart_open": {"type": "boolean"},
                "checkout_pending": {"type": "boolean"},
                "session_id": {"type": "string"},
                "wishlist_count": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Storefront API",
	Description:      "Shopping sessions over the shoe catalog: shelves, cart, wishlist, checkout and order tracking.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
