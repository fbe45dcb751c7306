package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domcart "example.com/storefront/app/internal/domain/cart"
	domorder "example.com/storefront/app/internal/domain/order"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateFromCart records a sale. Stock check, order insert and stock
// decrement run in one transaction with the product rows locked, so either
// the whole order lands or nothing changes.
func (r *OrderRepository) CreateFromCart(ctx context.Context, userID int64, items []domcart.Item, payment domorder.PaymentMethod) (_ *domorder.Order, retErr error) {
	if len(items) == 0 {
		return nil, domorder.ErrEmptyOrderItems
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	var total float64
	lines := make([]domorder.OrderItem, 0, len(items))
	for _, item := range items {
		line, err := lockOrderLine(ctx, tx, item)
		if err != nil {
			return nil, err
		}
		total += line.Price * float64(line.Quantity)
		lines = append(lines, line)
	}

	res, err := tx.ExecContext(ctx, `
        INSERT INTO orders (user_id, status, payment_method, total_amount)
        VALUES (?, ?, ?, ?)
    `, userID, domorder.StatusPending, payment, total)
	if err != nil {
		return nil, err
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity)
            VALUES (?, ?, ?, ?, ?)
        `, orderID, line.ProductID, line.Name, line.Price, line.Quantity); err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx, `
            UPDATE products SET stock = stock - ?
            WHERE id = ?
        `, line.Quantity, line.ProductID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, orderID)
}

func lockOrderLine(ctx context.Context, tx *sql.Tx, item domcart.Item) (domorder.OrderItem, error) {
	var (
		name   string
		price  float64
		stock  int64
		active bool
	)
	err := tx.QueryRowContext(ctx, `
        SELECT name, price, stock, is_active
        FROM products
        WHERE id = ?
        FOR UPDATE
    `, item.ProductID).Scan(&name, &price, &stock, &active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domorder.OrderItem{}, fmt.Errorf("%w: product %d not found", domorder.ErrCheckoutValidation, item.ProductID)
		}
		return domorder.OrderItem{}, err
	}
	if !active {
		return domorder.OrderItem{}, fmt.Errorf("%w: product %d is not for sale", domorder.ErrCheckoutValidation, item.ProductID)
	}
	if stock < item.Quantity {
		return domorder.OrderItem{}, fmt.Errorf("%w: product %d has %d left", domorder.ErrCheckoutValidation, item.ProductID, stock)
	}
	return domorder.OrderItem{
		ProductID: item.ProductID,
		Name:      name,
		Price:     price,
		Quantity:  item.Quantity,
	}, nil
}

func (r *OrderRepository) List(ctx context.Context) ([]*domorder.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, user_id, status, payment_method, total_amount, created_at
        FROM orders
        ORDER BY id DESC
    `)
	if err != nil {
		return nil, err
	}

	var orders []*domorder.Order
	for rows.Next() {
		var o domorder.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.PaymentMethod, &o.TotalAmount, &o.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// items are loaded after the cursor is closed to free the connection
	for _, o := range orders {
		if o.Items, err = r.listOrderItems(ctx, o.ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domorder.Order, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, user_id, status, payment_method, total_amount, created_at
        FROM orders WHERE id = ?
    `, id)

	var o domorder.Order
	if err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.PaymentMethod, &o.TotalAmount, &o.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domorder.ErrOrderNotFound
		}
		return nil, err
	}
	items, err := r.listOrderItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status domorder.Status) (*domorder.Order, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE orders SET status = ? WHERE id = ?
    `, status, id)
	if err != nil {
		return nil, err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return nil, domorder.ErrOrderNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *OrderRepository) listOrderItems(ctx context.Context, orderID int64) ([]domorder.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, order_id, product_id, product_name, unit_price, quantity
        FROM order_items WHERE order_id = ?
    `, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domorder.OrderItem
	for rows.Next() {
		var item domorder.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
