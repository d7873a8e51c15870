// Package docs holds the OpenAPI document served at /swagger in non-production builds.
// It is kept in sync with the handler annotations by running go generate ./cmd/kudi_backend.
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
        "/cart": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "cart"
                ],
                "summary": "Get the caller's active cart, creating it if needed",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.CartResponse"
                        }
                    }
                }
            }
        },
        "/cart/active": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "cart"
                ],
                "summary": "Get the caller's active cart",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.CartResponse"
                        }
                    },
                    "404": {
                        "description": "No active cart",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/cart/add-order/{orderId}": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "cart"
                ],
                "summary": "Add a pending order to the active cart",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Order ID",
                        "name": "orderId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.CartResponse"
                        }
                    },
                    "400": {
                        "description": "Order cannot be added",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "403": {
                        "description": "Not your order",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/cart/checkout": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Assigns a payment reference. The caller gets a fresh cart on next access.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "cart"
                ],
                "summary": "Freeze the active cart for payment",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.CartResponse"
                        }
                    },
                    "400": {
                        "description": "Cart is empty",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "No active cart",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/cart/clear": {
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "cart"
                ],
                "summary": "Remove every order from the active cart",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.CartResponse"
                        }
                    }
                }
            }
        },
        "/cart/history": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "cart"
                ],
                "summary": "Every cart the caller ever had, newest first",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.CartResponse"
                            }
                        }
                    }
                }
            }
        },
        "/cart/remove-order/{orderId}": {
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "cart"
                ],
                "summary": "Remove an order from the active cart",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Order ID",
                        "name": "orderId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.CartResponse"
                        }
                    },
                    "400": {
                        "description": "Order is not in the cart",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/cart/summary": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "cart"
                ],
                "summary": "Cart with display-only live conversion rates",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.CartSummaryResponse"
                        }
                    },
                    "404": {
                        "description": "No active cart",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/exchange-rates": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Adds a rate between two currencies effective from a given date. Admin only.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "exchange rates"
                ],
                "summary": "Create a new exchange rate",
                "parameters": [
                    {
                        "description": "Exchange Rate details",
                        "name": "rate",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CreateExchangeRateRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.ExchangeRateResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid input format or validation error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "403": {
                        "description": "Admin access required",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "409": {
                        "description": "A rate for this pair and date already exists",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/exchange-rates/convert": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "exchange rates"
                ],
                "summary": "Get the multiplier converting one currency into another",
                "parameters": [
                    {
                        "type": "string",
                        "description": "From currency code",
                        "name": "from",
                        "in": "query",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "To currency code",
                        "name": "to",
                        "in": "query",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ConversionRateResponse"
                        }
                    },
                    "404": {
                        "description": "No effective rate",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/exchange-rates/effective": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "exchange rates"
                ],
                "summary": "List the latest effective rate of every pair",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.ExchangeRateResponse"
                            }
                        }
                    }
                }
            }
        },
        "/exchange-rates/latest": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "exchange rates"
                ],
                "summary": "Get the latest effective rate for a pair",
                "parameters": [
                    {
                        "type": "string",
                        "description": "From currency code",
                        "name": "from",
                        "in": "query",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "To currency code",
                        "name": "to",
                        "in": "query",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ExchangeRateResponse"
                        }
                    },
                    "400": {
                        "description": "Unsupported currency",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "No effective rate",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/exchange-rates/{id}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "exchange rates"
                ],
                "summary": "Get an exchange rate by ID",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Exchange rate ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ExchangeRateResponse"
                        }
                    },
                    "404": {
                        "description": "Exchange rate not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "exchange rates"
                ],
                "summary": "Update an exchange rate",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Exchange rate ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Exchange Rate details",
                        "name": "rate",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.UpdateExchangeRateRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ExchangeRateResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid input format or validation error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Exchange rate not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "The rate is kept for history but no longer used for pricing. Admin only.",
                "tags": [
                    "exchange rates"
                ],
                "summary": "Deactivate an exchange rate",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Exchange rate ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Exchange rate not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/orders": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Prices the plan in the settlement currency and adds the service fee.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "orders"
                ],
                "summary": "Place an order for a service plan",
                "parameters": [
                    {
                        "description": "Order details",
                        "name": "order",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CreateOrderRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.OrderResponse"
                        }
                    },
                    "400": {
                        "description": "Validation error or inactive product",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Product, plan or rate not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/orders/admin/all": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Newest first, paged with an opaque token. Admin only.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "orders"
                ],
                "summary": "List every order",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Filter by status",
                        "name": "status",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Filter by admin action",
                        "name": "action",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Page size (default 20, max 100)",
                        "name": "limit",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Token from the previous page",
                        "name": "nextToken",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ListOrdersResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid filter or token",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/orders/my-orders": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "orders"
                ],
                "summary": "List the caller's orders",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Filter by status",
                        "name": "status",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.OrderResponse"
                            }
                        }
                    },
                    "400": {
                        "description": "Unknown status",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/orders/reference/{reference}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "orders"
                ],
                "summary": "Get an order by its reference",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Order reference",
                        "name": "reference",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.OrderResponse"
                        }
                    },
                    "404": {
                        "description": "Order not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/orders/statistics": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "orders"
                ],
                "summary": "Order counts by status and action",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.OrderStatistics"
                        }
                    }
                }
            }
        },
        "/orders/{id}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Owners and admins only. Admins also see the decrypted credential username.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "orders"
                ],
                "summary": "Get an order",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Order ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.OrderResponse"
                        }
                    },
                    "403": {
                        "description": "Not your order",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Order not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "orders"
                ],
                "summary": "Delete an order",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Order ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "400": {
                        "description": "Paid orders cannot be deleted",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/orders/{id}/action": {
            "patch": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "orders"
                ],
                "summary": "Move an order along the fulfilment workflow",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Order ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Next action",
                        "name": "action",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.UpdateOrderActionRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.OrderResponse"
                        }
                    },
                    "400": {
                        "description": "Transition not allowed",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "409": {
                        "description": "Order was modified concurrently",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/orders/{id}/cancel": {
            "patch": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Pending or paid orders only. The order leaves its cart.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "orders"
                ],
                "summary": "Cancel an order",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Order ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.OrderResponse"
                        }
                    },
                    "400": {
                        "description": "Order cannot be cancelled",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "403": {
                        "description": "Not your order",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/payments/initialize": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "payments"
                ],
                "summary": "Open a gateway transaction for a checked-out cart",
                "parameters": [
                    {
                        "description": "Cart to pay",
                        "name": "payment",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.InitializePaymentRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.PaymentInitialization"
                        }
                    },
                    "404": {
                        "description": "Cart not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "409": {
                        "description": "Cart is not awaiting payment",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "502": {
                        "description": "Gateway error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/payments/verify/{reference}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "payments"
                ],
                "summary": "Reconcile a payment with the gateway",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Payment reference",
                        "name": "reference",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.PaymentVerification"
                        }
                    },
                    "404": {
                        "description": "Unknown reference",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "502": {
                        "description": "Gateway error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/payments/webhook": {
            "post": {
                "description": "Signed with HMAC-SHA512 of the raw body. Processing happens in the background.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "payments"
                ],
                "summary": "Gateway event callback",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Body signature",
                        "name": "x-paystack-signature",
                        "in": "header",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "403": {
                        "description": "Invalid signature",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/product-prices": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Converts the default price into the settlement currency at the latest rate. Admin only.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "product prices"
                ],
                "summary": "Create or update the price of a plan",
                "parameters": [
                    {
                        "description": "Price details",
                        "name": "price",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.UpsertPriceRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated",
                        "schema": {
                            "$ref": "#/definitions/dto.PriceResponse"
                        }
                    },
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.PriceResponse"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Plan or rate not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/product-prices/plan/{planId}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "product prices"
                ],
                "summary": "Get the price of a plan",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Service plan ID",
                        "name": "planId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.PriceResponse"
                        }
                    },
                    "404": {
                        "description": "Price not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/product-prices/{id}": {
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "product prices"
                ],
                "summary": "Delete a stored price",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Price ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Price not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/product-prices/{id}/refresh-rate": {
            "patch": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "product prices"
                ],
                "summary": "Recompute a stored price at the current rate",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Price ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.PriceResponse"
                        }
                    },
                    "404": {
                        "description": "Price or rate not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "domain.OrderStatistics": {
            "type": "object",
            "properties": {
                "totalOrders": {
                    "type": "integer"
                },
                "ordersByStatus": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "integer"
                    }
                },
                "ordersByAction": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "integer"
                    }
                },
                "pendingAdminReview": {
                    "type": "integer"
                }
            }
        },
        "domain.PaymentInitialization": {
            "type": "object",
            "properties": {
                "authorizationURL": {
                    "type": "string"
                },
                "accessCode": {
                    "type": "string"
                },
                "reference": {
                    "type": "string"
                },
                "cartReference": {
                    "type": "string"
                },
                "amount": {
                    "type": "string",
                    "example": "0"
                },
                "amountMinor": {
                    "type": "integer"
                },
                "currency": {
                    "type": "string"
                }
            }
        },
        "domain.PaymentVerification": {
            "type": "object",
            "properties": {
                "reference": {
                    "type": "string"
                },
                "outcome": {
                    "type": "string"
                },
                "gatewayStatus": {
                    "type": "string"
                },
                "cartReference": {
                    "type": "string"
                },
                "cartStatus": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "dto.CartResponse": {
            "type": "object",
            "properties": {
                "cartID": {
                    "type": "string"
                },
                "cartReference": {
                    "type": "string"
                },
                "userID": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "itemCount": {
                    "type": "integer"
                },
                "subtotal": {
                    "type": "string",
                    "example": "0"
                },
                "totalServiceFee": {
                    "type": "string",
                    "example": "0"
                },
                "totalAmount": {
                    "type": "string",
                    "example": "0"
                },
                "currency": {
                    "type": "string"
                },
                "paymentReference": {
                    "type": "string"
                },
                "authorizationURL": {
                    "type": "string"
                },
                "checkedOutAt": {
                    "type": "string",
                    "format": "date-time"
                },
                "lastActivityAt": {
                    "type": "string",
                    "format": "date-time"
                },
                "orders": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.OrderResponse"
                    }
                },
                "createdAt": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "dto.CartSummaryResponse": {
            "type": "object",
            "properties": {
                "cartID": {
                    "type": "string"
                },
                "cartReference": {
                    "type": "string"
                },
                "userID": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "itemCount": {
                    "type": "integer"
                },
                "subtotal": {
                    "type": "string",
                    "example": "0"
                },
                "totalServiceFee": {
                    "type": "string",
                    "example": "0"
                },
                "totalAmount": {
                    "type": "string",
                    "example": "0"
                },
                "currency": {
                    "type": "string"
                },
                "paymentReference": {
                    "type": "string"
                },
                "authorizationURL": {
                    "type": "string"
                },
                "checkedOutAt": {
                    "type": "string",
                    "format": "date-time"
                },
                "lastActivityAt": {
                    "type": "string",
                    "format": "date-time"
                },
                "orders": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.OrderResponse"
                    }
                },
                "createdAt": {
                    "type": "string",
                    "format": "date-time"
                },
                "isExpired": {
                    "type": "boolean"
                },
                "liveRates": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "string",
                        "example": "0"
                    }
                }
            }
        },
        "dto.ConversionRateResponse": {
            "type": "object",
            "properties": {
                "fromCurrency": {
                    "type": "string"
                },
                "toCurrency": {
                    "type": "string"
                },
                "rate": {
                    "type": "string",
                    "example": "0"
                }
            }
        },
        "dto.CreateExchangeRateRequest": {
            "type": "object",
            "required": [
                "fromCurrency",
                "toCurrency",
                "rate",
                "effectiveDate"
            ],
            "properties": {
                "fromCurrency": {
                    "type": "string"
                },
                "toCurrency": {
                    "type": "string"
                },
                "rate": {
                    "type": "string",
                    "example": "0"
                },
                "effectiveDate": {
                    "type": "string",
                    "format": "date-time"
                },
                "expiryDate": {
                    "type": "string",
                    "format": "date-time"
                },
                "isActive": {
                    "type": "boolean"
                },
                "source": {
                    "type": "string"
                },
                "provider": {
                    "type": "string"
                }
            }
        },
        "dto.CreateOrderRequest": {
            "type": "object",
            "required": [
                "serviceProductID",
                "servicePlanID"
            ],
            "properties": {
                "serviceProductID": {
                    "type": "string"
                },
                "servicePlanID": {
                    "type": "string"
                },
                "credentialUsernameOrEmail": {
                    "type": "string"
                },
                "credentialPassword": {
                    "type": "string"
                },
                "metadata": {
                    "type": "object",
                    "additionalProperties": true
                }
            }
        },
        "dto.ExchangeRateResponse": {
            "type": "object",
            "properties": {
                "exchangeRateID": {
                    "type": "string"
                },
                "fromCurrency": {
                    "type": "string"
                },
                "toCurrency": {
                    "type": "string"
                },
                "rate": {
                    "type": "string",
                    "example": "0"
                },
                "effectiveDate": {
                    "type": "string",
                    "format": "date-time"
                },
                "expiryDate": {
                    "type": "string",
                    "format": "date-time"
                },
                "isActive": {
                    "type": "boolean"
                },
                "source": {
                    "type": "string"
                },
                "provider": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string",
                    "format": "date-time"
                },
                "createdBy": {
                    "type": "string"
                },
                "lastUpdatedAt": {
                    "type": "string",
                    "format": "date-time"
                },
                "lastUpdatedBy": {
                    "type": "string"
                }
            }
        },
        "dto.InitializePaymentRequest": {
            "type": "object",
            "required": [
                "cartReference"
            ],
            "properties": {
                "cartReference": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "metadata": {
                    "type": "object",
                    "additionalProperties": true
                }
            }
        },
        "dto.ListOrdersResponse": {
            "type": "object",
            "properties": {
                "orders": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.OrderResponse"
                    }
                },
                "nextToken": {
                    "type": "string"
                }
            }
        },
        "dto.OrderResponse": {
            "type": "object",
            "properties": {
                "orderID": {
                    "type": "string"
                },
                "orderReference": {
                    "type": "string"
                },
                "userID": {
                    "type": "string"
                },
                "userName": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "phoneNumber": {
                    "type": "string"
                },
                "serviceProductID": {
                    "type": "string"
                },
                "serviceProductName": {
                    "type": "string"
                },
                "servicePlanID": {
                    "type": "string"
                },
                "servicePlanName": {
                    "type": "string"
                },
                "credentialUsernameOrEmail": {
                    "type": "string"
                },
                "defaultAmount": {
                    "type": "string",
                    "example": "0"
                },
                "defaultCurrency": {
                    "type": "string"
                },
                "amount": {
                    "type": "string",
                    "example": "0"
                },
                "amountCurrency": {
                    "type": "string"
                },
                "currencyConversionRate": {
                    "type": "string",
                    "example": "0"
                },
                "serviceFee": {
                    "type": "string",
                    "example": "0"
                },
                "totalAmount": {
                    "type": "string",
                    "example": "0"
                },
                "status": {
                    "type": "string"
                },
                "action": {
                    "type": "string"
                },
                "cartID": {
                    "type": "string"
                },
                "isInCart": {
                    "type": "boolean"
                },
                "paymentReference": {
                    "type": "string"
                },
                "adminNotes": {
                    "type": "string"
                },
                "metadata": {
                    "type": "object",
                    "additionalProperties": true
                },
                "createdAt": {
                    "type": "string",
                    "format": "date-time"
                },
                "lastUpdatedAt": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "dto.PriceResponse": {
            "type": "object",
            "properties": {
                "priceID": {
                    "type": "string"
                },
                "servicePlanID": {
                    "type": "string"
                },
                "defaultPrice": {
                    "type": "string",
                    "example": "0"
                },
                "defaultCurrency": {
                    "type": "string"
                },
                "amountToPay": {
                    "type": "string",
                    "example": "0"
                },
                "amountCurrency": {
                    "type": "string"
                },
                "conversionRate": {
                    "type": "string",
                    "example": "0"
                },
                "rateTimestamp": {
                    "type": "string",
                    "format": "date-time"
                },
                "rateSource": {
                    "type": "string"
                },
                "isRateStale": {
                    "type": "boolean"
                },
                "lastUpdatedAt": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "dto.UpdateExchangeRateRequest": {
            "type": "object",
            "required": [
                "fromCurrency",
                "toCurrency",
                "rate",
                "effectiveDate"
            ],
            "properties": {
                "fromCurrency": {
                    "type": "string"
                },
                "toCurrency": {
                    "type": "string"
                },
                "rate": {
                    "type": "string",
                    "example": "0"
                },
                "effectiveDate": {
                    "type": "string",
                    "format": "date-time"
                },
                "expiryDate": {
                    "type": "string",
                    "format": "date-time"
                },
                "isActive": {
                    "type": "boolean"
                },
                "source": {
                    "type": "string"
                },
                "provider": {
                    "type": "string"
                }
            }
        },
        "dto.UpdateOrderActionRequest": {
            "type": "object",
            "required": [
                "action"
            ],
            "properties": {
                "action": {
                    "type": "string"
                },
                "adminNotes": {
                    "type": "string"
                }
            }
        },
        "dto.UpsertPriceRequest": {
            "type": "object",
            "required": [
                "servicePlanID",
                "defaultPrice",
                "defaultCurrency"
            ],
            "properties": {
                "servicePlanID": {
                    "type": "string"
                },
                "defaultPrice": {
                    "type": "string",
                    "example": "0"
                },
                "defaultCurrency": {
                    "type": "string"
                },
                "amountCurrency": {
                    "type": "string"
                },
                "rateSource": {
                    "type": "string"
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "security": [
        {
            "BearerAuth": []
        }
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Kudi Commerce API",
	Description:      "Orders, carts and payments for subscription services priced in foreign currencies.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
