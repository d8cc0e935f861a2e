package models

import (
	"strings"
	"time"
)

// Category категория товара магазина.
type Category string

const (
	CategoryKimono    Category = "kimono"
	CategoryRashguard Category = "rashguard"
	CategoryShort     Category = "short"
	CategoryBelt      Category = "belt"
)

// ParseCategory проверяет категорию.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.TrimSpace(strings.ToLower(s)))
	switch c {
	case CategoryKimono, CategoryRashguard, CategoryShort, CategoryBelt:
		return c, true
	}
	return "", false
}

// Product товар магазина. Цена в центах.
type Product struct {
	ID           int64     `json:"id"`
	Category     Category  `json:"category"`
	Name         string    `json:"name"`
	Color        string    `json:"color"`
	Size         string    `json:"size"`
	PriceCents   int64     `json:"price_cents"`
	Currency     string    `json:"currency"`
	InventoryQty int       `json:"inventory_qty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProductInput создание товара. Цена передаётся центами или строкой "12.50".
type ProductInput struct {
	Category     string `json:"category"`
	Name         string `json:"name" validate:"max=200"`
	Color        string `json:"color" validate:"max=60"`
	Size         string `json:"size" validate:"max=20"`
	PriceCents   *int64 `json:"price_cents"`
	Price        string `json:"price"`
	InventoryQty *int   `json:"inventory_qty"`
	IsActive     *bool  `json:"is_active"`
}

// ProductPatch частичное обновление товара.
type ProductPatch struct {
	ID           int64   `json:"id"`
	Category     *string `json:"category"`
	Name         *string `json:"name"`
	Color        *string `json:"color"`
	Size         *string `json:"size"`
	PriceCents   *int64  `json:"price_cents"`
	Price        *string `json:"price"`
	InventoryQty *int    `json:"inventory_qty"`
	IsActive     *bool   `json:"is_active"`
}

// ProductUpdate проверенный набор колонок для частичного обновления; nil поля не трогаются.
type ProductUpdate struct {
	Category     *Category
	Name         *string
	Color        *string
	Size         *string
	PriceCents   *int64
	InventoryQty *int
	IsActive     *bool
}

// Empty сообщает, что обновлять нечего.
func (u ProductUpdate) Empty() bool {
	return u.Category == nil && u.Name == nil && u.Color == nil && u.Size == nil &&
		u.PriceCents == nil && u.InventoryQty == nil && u.IsActive == nil
}

// ProductFilter фильтр каталога.
type ProductFilter struct {
	Category   Category
	Query      string
	OnlyActive bool
	Inactive   bool
	Page       int
	Limit      int
}

// OrderStatus статус заказа.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderReady     OrderStatus = "ready"
	OrderDelivered OrderStatus = "delivered"
	OrderCanceled  OrderStatus = "canceled"
)

var orderStatusAliases = map[string]OrderStatus{
	"delivere":  OrderDelivered,
	"deliverd":  OrderDelivered,
	"confirme":  OrderConfirmed,
	"confirmer": OrderConfirmed,
	"pendingg":  OrderPending,
	"cancel":    OrderCanceled,
	"cancelled": OrderCanceled,
}

// NormalizeOrderStatus приводит статус к канону, исправляя частые опечатки.
func NormalizeOrderStatus(s string) (OrderStatus, bool) {
	v := strings.TrimSpace(strings.ToLower(s))
	if alias, ok := orderStatusAliases[v]; ok {
		return alias, true
	}
	st := OrderStatus(v)
	switch st {
	case OrderPending, OrderConfirmed, OrderReady, OrderDelivered, OrderCanceled:
		return st, true
	}
	return "", false
}

// Способы оплаты заказа.
var PaymentMethods = []string{"cash", "card", "bank_transfer", "instapay"}

// DefaultPaymentMethod используется, если клиент не указал или указал неизвестный.
const DefaultPaymentMethod = "cash"

// NormalizePaymentMethod возвращает известный способ оплаты или cash.
func NormalizePaymentMethod(s string) string {
	v := strings.TrimSpace(strings.ToLower(s))
	for _, m := range PaymentMethods {
		if m == v {
			return m
		}
	}
	return DefaultPaymentMethod
}

// Order заказ магазина с замороженными ценами строк.
type Order struct {
	ID               int64       `json:"id"`
	UserID           string      `json:"user_id"`
	Status           OrderStatus `json:"status"`
	SubtotalCents    int64       `json:"subtotal_cents"`
	DiscountPct      int         `json:"discount_pct"`
	TotalCents       int64       `json:"total_cents"`
	Currency         string      `json:"currency"`
	PreferredPayment string      `json:"preferred_payment"`
	Note             *string     `json:"note"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
	Items            []OrderItem `json:"items,omitempty"`
}

// OrderItem строка заказа.
type OrderItem struct {
	OrderID        int64  `json:"order_id"`
	ProductID      int64  `json:"product_id"`
	ProductName    string `json:"product_name,omitempty"`
	Qty            int    `json:"qty"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	SubtotalCents  int64  `json:"subtotal_cents"`
	LineTotalCents int64  `json:"line_total_cents"`
}

// OrderItemInput позиция из корзины.
type OrderItemInput struct {
	ProductID int64 `json:"product_id"`
	Qty       int   `json:"qty"`
}

// CreateOrderRequest оформление заказа.
type CreateOrderRequest struct {
	Items            []OrderItemInput `json:"items"`
	PreferredPayment string           `json:"preferred_payment"`
	Note             string           `json:"note" validate:"max=1000"`
}

// CreateOrderResult ответ на оформление заказа.
type CreateOrderResult struct {
	ID          int64       `json:"id"`
	TotalCents  int64       `json:"total_cents"`
	DiscountPct int         `json:"discount_pct"`
	Status      OrderStatus `json:"status"`
}

// OrderFilter параметры списка заказов.
type OrderFilter struct {
	UserID string
	All    bool
	Page   int
	Limit  int
}

// StatusChangeResult результат смены статуса. Warn заполняется, если уведомление не ушло.
type StatusChangeResult struct {
	ID     int64       `json:"id"`
	Status OrderStatus `json:"status"`
	Warn   string      `json:"warn,omitempty"`
}

// OrderMessage сообщение администратора по заказу.
type OrderMessage struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	SenderID  string    `json:"sender_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
