package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/atom-backoffice/internal/models"
)

const productColumns = `id, category, name, color, size, price_cents, currency, inventory_qty, is_active, created_at`

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	if err := row.Scan(&p.ID, &p.Category, &p.Name, &p.Color, &p.Size, &p.PriceCents,
		&p.Currency, &p.InventoryQty, &p.IsActive, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts каталог с фильтрами и общим числом строк.
func (s *Storage) ListProducts(ctx context.Context, f models.ProductFilter) ([]models.Product, int, error) {
	const op = "storage.ListProducts"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var conds []string
	var args []any
	if f.OnlyActive {
		conds = append(conds, "is_active")
	}
	if f.Category != "" {
		args = append(args, string(f.Category))
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+q+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR color ILIKE $%d OR size ILIKE $%d)", n, n, n))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM store_products`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	args = append(args, f.Limit, offset(f.Page, f.Limit))
	query := fmt.Sprintf(`SELECT %s FROM store_products%s ORDER BY category, name, id LIMIT $%d OFFSET $%d`,
		productColumns, where, len(args)-1, len(args))
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return items, total, nil
}

// GetProductsByIDs товары по списку id; отсутствующие просто не попадают в результат.
func (s *Storage) GetProductsByIDs(ctx context.Context, ids []int64) (map[int64]models.Product, error) {
	const op = "storage.GetProductsByIDs"
	rows, err := s.DB.QueryContext(ctx, `SELECT `+productColumns+` FROM store_products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make(map[int64]models.Product, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out[p.ID] = *p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// CreateProduct вставляет товар.
func (s *Storage) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	const op = "storage.CreateProduct"
	row := s.DB.QueryRowContext(ctx, `INSERT INTO store_products
		(category, name, color, size, price_cents, currency, inventory_qty, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING `+productColumns,
		string(p.Category), p.Name, p.Color, p.Size, p.PriceCents, p.Currency, p.InventoryQty, p.IsActive)
	created, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return created, nil
}

// UpdateProduct применяет частичное обновление.
func (s *Storage) UpdateProduct(ctx context.Context, id int64, u models.ProductUpdate) (*models.Product, error) {
	const op = "storage.UpdateProduct"
	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if u.Category != nil {
		add("category", string(*u.Category))
	}
	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Color != nil {
		add("color", *u.Color)
	}
	if u.Size != nil {
		add("size", *u.Size)
	}
	if u.PriceCents != nil {
		add("price_cents", *u.PriceCents)
	}
	if u.InventoryQty != nil {
		add("inventory_qty", *u.InventoryQty)
	}
	if u.IsActive != nil {
		add("is_active", *u.IsActive)
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNoFieldsToUpdate)
	}

	args = append(args, id)
	row := s.DB.QueryRowContext(ctx, fmt.Sprintf(`UPDATE store_products SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), productColumns), args...)
	p, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return p, nil
}

// DeleteProduct удаляет товар. Строки заказов сохраняют снимок названия.
func (s *Storage) DeleteProduct(ctx context.Context, id int64) error {
	const op = "storage.DeleteProduct"
	return s.execOne(ctx, op, `DELETE FROM store_products WHERE id = $1`, id)
}

// CreateOrder вставляет заголовок заказа и строки в одной транзакции.
func (s *Storage) CreateOrder(ctx context.Context, o models.Order) (int64, error) {
	const op = "storage.CreateOrder"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `INSERT INTO store_orders
			(user_id, status, subtotal_cents, discount_pct, total_cents, currency, preferred_payment, note)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
			o.UserID, string(o.Status), o.SubtotalCents, o.DiscountPct, o.TotalCents,
			o.Currency, o.PreferredPayment, o.Note).Scan(&id); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO store_order_items
			(order_id, product_id, product_name, qty, unit_price_cents, subtotal_cents, line_total_cents)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, it := range o.Items {
			if _, err := stmt.ExecContext(ctx, id, it.ProductID, it.ProductName, it.Qty,
				it.UnitPriceCents, it.SubtotalCents, it.LineTotalCents); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return id, nil
}

const orderColumns = `id, user_id, status, subtotal_cents, discount_pct, total_cents, currency,
	preferred_payment, note, created_at, updated_at`

func scanOrder(row rowScanner) (*models.Order, error) {
	var o models.Order
	var note sql.NullString
	if err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.SubtotalCents, &o.DiscountPct, &o.TotalCents,
		&o.Currency, &o.PreferredPayment, &note, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	if note.Valid {
		v := note.String
		o.Note = &v
	}
	return &o, nil
}

// ListOrders страница заказов со строками. Пустой UserID при All возвращает все заказы.
func (s *Storage) ListOrders(ctx context.Context, f models.OrderFilter) ([]models.Order, int, error) {
	const op = "storage.ListOrders"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where := ""
	var args []any
	if !f.All {
		args = append(args, f.UserID)
		where = " WHERE user_id = $1"
	}

	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM store_orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	args = append(args, f.Limit, offset(f.Page, f.Limit))
	rows, err := s.DB.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM store_orders%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		orderColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	orders := []models.Order{}
	index := map[int64]int{}
	ids := []int64{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		index[o.ID] = len(orders)
		ids = append(ids, o.ID)
		orders = append(orders, *o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(ids) == 0 {
		return orders, total, nil
	}

	items, err := s.orderItems(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	for _, it := range items {
		i := index[it.OrderID]
		orders[i].Items = append(orders[i].Items, it)
	}
	return orders, total, nil
}

func (s *Storage) orderItems(ctx context.Context, orderIDs []int64) ([]models.OrderItem, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT order_id, product_id, product_name, qty,
			unit_price_cents, subtotal_cents, line_total_cents
		FROM store_order_items WHERE order_id = ANY($1) ORDER BY order_id, id`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		var productID sql.NullInt64
		if err := rows.Scan(&it.OrderID, &productID, &it.ProductName, &it.Qty,
			&it.UnitPriceCents, &it.SubtotalCents, &it.LineTotalCents); err != nil {
			return nil, err
		}
		it.ProductID = productID.Int64
		out = append(out, it)
	}
	return out, rows.Err()
}

// GetOrder заказ со строками.
func (s *Storage) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	const op = "storage.GetOrder"
	o, err := scanOrder(s.DB.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM store_orders WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	items, err := s.orderItems(ctx, []int64{id})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	o.Items = items
	return o, nil
}

// UpdateOrderStatus меняет статус и возвращает владельца заказа.
func (s *Storage) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (string, error) {
	const op = "storage.UpdateOrderStatus"
	var userID string
	err := s.DB.QueryRowContext(ctx, `UPDATE store_orders SET status = $2, updated_at = now()
		WHERE id = $1 RETURNING user_id`, id, string(status)).Scan(&userID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, mapError(err))
	}
	return userID, nil
}

// CreateOrderMessage добавляет сообщение к заказу.
func (s *Storage) CreateOrderMessage(ctx context.Context, m models.OrderMessage) (*models.OrderMessage, error) {
	const op = "storage.CreateOrderMessage"
	err := s.DB.QueryRowContext(ctx, `INSERT INTO store_order_messages (order_id, sender_id, body)
		VALUES ($1, $2, $3) RETURNING id, created_at`, m.OrderID, m.SenderID, m.Body).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &m, nil
}
