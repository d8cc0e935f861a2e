// Package store каталог товаров клуба и заказы участников и тренеров.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/atom-backoffice/internal/lib/money"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/pricing"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

// Размеры страниц.
const (
	ProductsDefaultLimit = 8
	ProductsMaxLimit     = 50
	OrdersDefaultLimit   = 20
	OrdersMaxLimit       = 100
)

// Repository товары и заказы.
type Repository interface {
	ListProducts(ctx context.Context, f models.ProductFilter) ([]models.Product, int, error)
	GetProductsByIDs(ctx context.Context, ids []int64) (map[int64]models.Product, error)
	CreateProduct(ctx context.Context, p models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, u models.ProductUpdate) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	CreateOrder(ctx context.Context, o models.Order) (int64, error)
	ListOrders(ctx context.Context, f models.OrderFilter) ([]models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (string, error)
	CreateOrderMessage(ctx context.Context, m models.OrderMessage) (*models.OrderMessage, error)
	InsertNotifications(ctx context.Context, batch []models.NewNotification) (int, error)
}

// Metrics счётчики магазина.
type Metrics interface {
	IncOrder(role string)
	AddNotifications(kind string, n int)
}

// Service магазин.
type Service struct {
	repo    Repository
	metrics Metrics
	log     *slog.Logger
}

// NewService создаёт сервис магазина.
func NewService(repo Repository, metrics Metrics, log *slog.Logger) *Service {
	return &Service{repo: repo, metrics: metrics, log: log}
}

// ProductQuery параметры каталога из запроса.
type ProductQuery struct {
	Category string
	Query    string
	All      bool
	Page     int
	Limit    int
}

// ListProducts каталог. Неактивные товары видит только super_admin с All.
func (s *Service) ListProducts(ctx context.Context, actor models.Profile, q ProductQuery) ([]models.Product, int, error) {
	const op = "store.ListProducts"
	f := models.ProductFilter{
		Query:      strings.TrimSpace(q.Query),
		OnlyActive: !(q.All && actor.Role == models.RoleSuperAdmin),
		Page:       max(q.Page, 1),
		Limit:      clampLimit(q.Limit, ProductsDefaultLimit, ProductsMaxLimit),
	}
	if c := strings.TrimSpace(q.Category); c != "" {
		cat, ok := models.ParseCategory(c)
		if !ok {
			return nil, 0, models.ErrInvalidCategory
		}
		f.Category = cat
	}
	items, total, err := s.repo.ListProducts(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return items, total, nil
}

// CreateProduct добавляет товар.
func (s *Service) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	const op = "store.CreateProduct"

	cat, ok := models.ParseCategory(in.Category)
	if !ok {
		return nil, models.ErrInvalidCategory
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.ErrMissingName
	}
	price, err := priceCents(in.PriceCents, ptr(in.Price))
	if err != nil {
		return nil, err
	}
	if price == nil {
		return nil, models.ErrInvalidPrice
	}
	p := models.Product{
		Category:   cat,
		Name:       name,
		Color:      strings.TrimSpace(in.Color),
		Size:       strings.TrimSpace(in.Size),
		PriceCents: *price,
		Currency:   money.DefaultCurrency,
		IsActive:   true,
	}
	if in.InventoryQty != nil {
		if *in.InventoryQty < 0 {
			return nil, models.ErrInvalidInventory
		}
		p.InventoryQty = *in.InventoryQty
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}

	created, err := s.repo.CreateProduct(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("product created", slog.String("op", op), slog.Int64("product_id", created.ID))
	return created, nil
}

// UpdateProduct частично обновляет товар.
func (s *Service) UpdateProduct(ctx context.Context, in models.ProductPatch) (*models.Product, error) {
	const op = "store.UpdateProduct"
	if in.ID <= 0 {
		return nil, models.ErrMissingID
	}

	var u models.ProductUpdate
	if in.Category != nil {
		cat, ok := models.ParseCategory(*in.Category)
		if !ok {
			return nil, models.ErrInvalidCategory
		}
		u.Category = &cat
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, models.ErrMissingName
		}
		u.Name = &name
	}
	u.Color = trimmed(in.Color)
	u.Size = trimmed(in.Size)
	price, err := priceCents(in.PriceCents, in.Price)
	if err != nil {
		return nil, err
	}
	u.PriceCents = price
	if in.InventoryQty != nil {
		if *in.InventoryQty < 0 {
			return nil, models.ErrInvalidInventory
		}
		u.InventoryQty = in.InventoryQty
	}
	u.IsActive = in.IsActive
	if u.Empty() {
		return nil, models.ErrNoFieldsToUpdate
	}

	p, err := s.repo.UpdateProduct(ctx, in.ID, u)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, models.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// DeleteProduct удаляет товар. Строки заказов сохраняют название.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	const op = "store.DeleteProduct"
	if id <= 0 {
		return models.ErrMissingID
	}
	err := s.repo.DeleteProduct(ctx, id)
	if errors.Is(err, models.ErrRecordNotFound) {
		return models.ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("product deleted", slog.String("op", op), slog.Int64("product_id", id))
	return nil
}

// CreateOrder оформляет заказ по текущим ценам со скидкой по роли.
func (s *Service) CreateOrder(ctx context.Context, actor models.Profile, req models.CreateOrderRequest) (*models.CreateOrderResult, error) {
	const op = "store.CreateOrder"
	log := s.log.With(slog.String("op", op), sl.UserID(actor.UserID))

	if !actor.Role.In(models.OrderingRoles...) {
		return nil, models.ErrForbidden
	}
	if len(req.Items) == 0 {
		return nil, models.ErrNoItems
	}

	// Порядок строк повторяет первое появление товара в корзине.
	var ids []int64
	qty := make(map[int64]int)
	for _, it := range req.Items {
		if it.ProductID <= 0 {
			continue
		}
		if _, seen := qty[it.ProductID]; !seen {
			ids = append(ids, it.ProductID)
		}
		qty[it.ProductID] += max(1, it.Qty)
	}
	if len(ids) == 0 {
		return nil, models.ErrNoValidItems
	}

	products, err := s.repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var missing []string
	for _, id := range ids {
		if _, ok := products[id]; !ok {
			missing = append(missing, strconv.FormatInt(id, 10))
		}
	}
	if len(missing) > 0 {
		return nil, models.ErrProductsNotFound.WithDetails(strings.Join(missing, ","))
	}

	items := make([]models.OrderItem, 0, len(ids))
	subtotals := make([]int64, 0, len(ids))
	var subtotal int64
	for _, id := range ids {
		p := products[id]
		if !p.IsActive {
			return nil, models.ErrProductInactive.WithDetails(strconv.FormatInt(id, 10))
		}
		unit := max(p.PriceCents, 0)
		sub := unit * int64(qty[id])
		subtotal += sub
		subtotals = append(subtotals, sub)
		items = append(items, models.OrderItem{
			ProductID:      id,
			ProductName:    p.Name,
			Qty:            qty[id],
			UnitPriceCents: unit,
			SubtotalCents:  sub,
		})
	}

	pct := pricing.RoleDiscountPercent(actor.Role)
	lines, total := pricing.Prorate(subtotals, pct)
	for i := range items {
		items[i].LineTotalCents = lines[i]
	}

	var note *string
	if n := strings.TrimSpace(req.Note); n != "" {
		note = &n
	}
	order := models.Order{
		UserID:           actor.UserID,
		Status:           models.OrderPending,
		SubtotalCents:    subtotal,
		DiscountPct:      pct,
		TotalCents:       total,
		Currency:         money.DefaultCurrency,
		PreferredPayment: models.NormalizePaymentMethod(req.PreferredPayment),
		Note:             note,
		Items:            items,
	}
	id, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.IncOrder(string(actor.Role))
	log.Info("order created", slog.Int64("order_id", id), slog.Int64("total_cents", total), slog.Int("discount_pct", pct))

	return &models.CreateOrderResult{ID: id, TotalCents: total, DiscountPct: pct, Status: models.OrderPending}, nil
}

// ListOrders заказы пользователя; super_admin с all видит все.
func (s *Service) ListOrders(ctx context.Context, actor models.Profile, all bool, page, limit int) ([]models.Order, int, error) {
	const op = "store.ListOrders"
	f := models.OrderFilter{
		UserID: actor.UserID,
		All:    all && actor.Role == models.RoleSuperAdmin,
		Page:   max(page, 1),
		Limit:  clampLimit(limit, OrdersDefaultLimit, OrdersMaxLimit),
	}
	items, total, err := s.repo.ListOrders(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return items, total, nil
}

// notifyStatuses статусы, о которых сообщается владельцу заказа.
var notifyStatuses = map[models.OrderStatus]bool{
	models.OrderConfirmed: true,
	models.OrderDelivered: true,
	models.OrderCanceled:  true,
}

// UpdateStatus меняет статус заказа и уведомляет владельца.
// Сбой уведомления не отменяет смену статуса.
func (s *Service) UpdateStatus(ctx context.Context, actor models.Profile, id int64, rawStatus string) (*models.StatusChangeResult, error) {
	const op = "store.UpdateStatus"
	log := s.log.With(slog.String("op", op), slog.Int64("order_id", id))

	if id <= 0 {
		return nil, models.ErrMissingOrderID
	}
	status, ok := models.NormalizeOrderStatus(rawStatus)
	if !ok {
		return nil, models.ErrInvalidStatus
	}
	owner, err := s.repo.UpdateOrderStatus(ctx, id, status)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, models.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("order status changed", slog.String("status", string(status)))

	res := &models.StatusChangeResult{ID: id, Status: status}
	if !notifyStatuses[status] {
		return res, nil
	}
	sender := actor.UserID
	n, err := s.repo.InsertNotifications(ctx, []models.NewNotification{{
		UserID:   owner,
		Kind:     models.KindOrderUpdate,
		Title:    "Order " + string(status),
		Body:     fmt.Sprintf("Your order #%d is now %s.", id, status),
		SenderID: &sender,
	}})
	if err != nil {
		log.Warn("order notification failed", sl.UserID(owner), sl.Err(err))
		res.Warn = "NOTIFICATION_FAILED"
		return res, nil
	}
	s.metrics.AddNotifications(models.KindOrderUpdate, n)
	return res, nil
}

// AddMessage добавляет сообщение администратора к заказу.
func (s *Service) AddMessage(ctx context.Context, actor models.Profile, orderID int64, body string) (*models.OrderMessage, error) {
	const op = "store.AddMessage"
	if orderID <= 0 {
		return nil, models.ErrMissingOrderID
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, models.ErrInvalidInput
	}
	m, err := s.repo.CreateOrderMessage(ctx, models.OrderMessage{OrderID: orderID, SenderID: actor.UserID, Body: body})
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, models.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// priceCents берёт цену из центов или из строки "12,50"; nil если не задана.
func priceCents(cents *int64, price *string) (*int64, error) {
	switch {
	case cents != nil:
		if *cents < 0 {
			return nil, models.ErrInvalidPrice
		}
		return cents, nil
	case price != nil && strings.TrimSpace(*price) != "":
		v := strings.TrimSpace(*price)
		if _, err := strconv.ParseFloat(strings.Replace(v, ",", ".", 1), 64); err != nil {
			return nil, models.ErrInvalidPrice
		}
		c := money.ParsePriceToCents(v)
		if c < 0 {
			return nil, models.ErrInvalidPrice
		}
		return &c, nil
	}
	return nil, nil
}

func clampLimit(limit, def, maxLimit int) int {
	if limit <= 0 {
		return def
	}
	return min(limit, maxLimit)
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

func ptr(s string) *string { return &s }
