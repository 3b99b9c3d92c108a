package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/smilefnb/smile_backend/config"
	"github.com/smilefnb/smile_backend/utils"
	"gorm.io/gorm"
)

const (
	orderDateLayout = "2006-01-02"
	orderTimeLayout = "15:04:05"
)

// Order is one line item on a table's active check. Within a table at most
// one row may exist per normalized dish name; the (table_id, dish_key)
// unique index enforces that identity.
type Order struct {
	ID        int       `gorm:"primary_key" json:"id"`
	TableId   int       `gorm:"not null;uniqueIndex:idx_order_identity,priority:1" json:"table_id"`
	Date      string    `gorm:"size:50;not null" json:"date"`
	Time      string    `gorm:"size:50;not null" json:"time"`
	DishName  string    `gorm:"size:255;not null" json:"dish_name"`
	DishKey   string    `gorm:"size:255;not null;uniqueIndex:idx_order_identity,priority:2" json:"-"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Note      string    `gorm:"type:text" json:"note"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Order) TableName() string {
	return "order_list"
}

func (o *Order) BeforeSave(tx *gorm.DB) error {
	o.DishKey = NormalizeDishName(o.DishName)
	return nil
}

// NewOrder is the legacy create payload: the front-end supplies date/time.
type NewOrder struct {
	TableId  *int   `json:"table_id" binding:"required"`
	DishName string `json:"dish_name" binding:"required"`
	Quantity int    `json:"quantity"`
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
	Note     string `json:"note"`
}

// NewOrderItem is the preferred per-table payload; date/time are assigned
// server-side and quantity defaults to 1 when omitted.
type NewOrderItem struct {
	DishName string `json:"dish_name" binding:"required"`
	Quantity *int   `json:"quantity"`
	Note     string `json:"note"`
}

type OrderQuantityUpdate struct {
	Quantity *int `json:"quantity"`
}

type OrderNoteUpdate struct {
	Note string `json:"note"`
}

// NormalizeDishName computes the identity key for a dish name: surrounding
// whitespace removed, letters case-folded. Must stay in sync with the value
// stored in dish_key.
func NormalizeDishName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type dishMatchMode int

const (
	// matchExact compares the literal dish name as stored.
	matchExact dishMatchMode = iota
	// matchNormalized compares on the trimmed, case-folded dish_key.
	matchNormalized
)

type missPolicy int

const (
	createOnMiss missPolicy = iota
	failOnMiss
)

func findOrderForDish(tx *gorm.DB, ctx context.Context, tableId int, dishName string, mode dishMatchMode) (*Order, error) {
	dbCtx := tx.WithContext(ctx).Where("table_id = ?", tableId)
	if mode == matchNormalized {
		dbCtx = dbCtx.Where("dish_key = ?", NormalizeDishName(dishName))
	} else {
		dbCtx = dbCtx.Where("dish_name = ?", dishName)
	}

	var order Order
	if err := dbCtx.First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &order, nil
}

// reconcileOrder is the single create-or-update primitive behind the legacy
// create, item create and quantity-update paths. It runs one transaction:
// find the line item for (tableId, dishName) under the given matching mode,
// apply the field updates if found, otherwise insert build() or fail per
// policy. A concurrent insert for the same identity trips the
// (table_id, dish_key) unique index; the loser retries once, in a fresh
// transaction so it sees the winner's committed row, as a normalized-match
// update.
func reconcileOrder(ctx context.Context, tableId int, dishName string, mode dishMatchMode, policy missPolicy, apply func(*Order), build func() *Order) (*Order, error) {
	order, err := reconcileOrderOnce(ctx, tableId, dishName, mode, policy, apply, build)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		order, err = reconcileOrderOnce(ctx, tableId, dishName, matchNormalized, policy, apply, build)
	}
	return order, err
}

func reconcileOrderOnce(ctx context.Context, tableId int, dishName string, mode dishMatchMode, policy missPolicy, apply func(*Order), build func() *Order) (*Order, error) {
	db := config.GetDB()

	var result *Order
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := findOrderForDish(tx, ctx, tableId, dishName, mode)
		if err == nil {
			apply(order)
			if err := tx.WithContext(ctx).Save(order).Error; err != nil {
				return err
			}
			result = order
			return nil
		}
		if !errors.Is(err, utils.ErrorRecordNotFound) {
			return err
		}
		if policy == failOnMiss {
			return utils.ErrorRecordNotFound
		}

		order = build()
		if err := tx.WithContext(ctx).Create(order).Error; err != nil {
			return err
		}
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func GetAllOrders(ctx context.Context) ([]*Order, error) {
	db := config.GetDB()

	var orders []*Order
	if err := db.WithContext(ctx).Order("dish_name").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func GetOrdersByTable(ctx context.Context, tableId int) ([]*Order, error) {
	db := config.GetDB()

	var orders []*Order
	if err := db.WithContext(ctx).Where("table_id = ?", tableId).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateOrder handles the legacy create payload: exact dish-name match,
// caller-supplied date/time, note overwritten only when a new one is given.
func CreateOrder(ctx context.Context, input *NewOrder) (*Order, error) {
	tableId := *input.TableId

	apply := func(o *Order) {
		o.Quantity = input.Quantity
		if input.Note != "" {
			o.Note = input.Note
		}
		o.Date = input.Date
		o.Time = input.Time
	}
	build := func() *Order {
		return &Order{
			TableId:  tableId,
			DishName: input.DishName,
			Quantity: input.Quantity,
			Note:     input.Note,
			Date:     input.Date,
			Time:     input.Time,
		}
	}
	return reconcileOrder(ctx, tableId, input.DishName, matchExact, createOnMiss, apply, build)
}

// UpsertOrderItem is the preferred create path: normalized dish-name match,
// quantity and note overwritten unconditionally, date/time refreshed to the
// current moment. A new row stores the dish name exactly as supplied.
func UpsertOrderItem(ctx context.Context, tableId int, input *NewOrderItem) (*Order, error) {
	quantity := 1
	if input.Quantity != nil {
		quantity = *input.Quantity
	}
	now := time.Now()

	apply := func(o *Order) {
		o.Quantity = quantity
		o.Note = input.Note
		o.Date = now.Format(orderDateLayout)
		o.Time = now.Format(orderTimeLayout)
	}
	build := func() *Order {
		return &Order{
			TableId:  tableId,
			DishName: input.DishName,
			Quantity: quantity,
			Note:     input.Note,
			Date:     now.Format(orderDateLayout),
			Time:     now.Format(orderTimeLayout),
		}
	}
	return reconcileOrder(ctx, tableId, input.DishName, matchNormalized, createOnMiss, apply, build)
}

// UpdateOrderQuantity matches the literal dish name (legacy variant). A miss
// is not an error: the row is created with the supplied quantity, or 1 when
// unspecified (idempotent PUT).
func UpdateOrderQuantity(ctx context.Context, tableId int, dishName string, input *OrderQuantityUpdate) (*Order, error) {
	now := time.Now()

	apply := func(o *Order) {
		if input.Quantity != nil {
			o.Quantity = *input.Quantity
		}
	}
	build := func() *Order {
		quantity := 1
		if input.Quantity != nil {
			quantity = *input.Quantity
		}
		return &Order{
			TableId:  tableId,
			DishName: dishName,
			Quantity: quantity,
			Note:     "",
			Date:     now.Format(orderDateLayout),
			Time:     now.Format(orderTimeLayout),
		}
	}
	return reconcileOrder(ctx, tableId, dishName, matchExact, createOnMiss, apply, build)
}

// UpdateOrderNote matches on the normalized dish name; a missing line item
// is a hard not-found, unlike the quantity update.
func UpdateOrderNote(ctx context.Context, tableId int, dishName string, input *OrderNoteUpdate) (*Order, error) {
	apply := func(o *Order) {
		o.Note = input.Note
	}
	return reconcileOrder(ctx, tableId, dishName, matchNormalized, failOnMiss, apply, nil)
}

func DeleteOrderByTableAndDish(ctx context.Context, tableId int, dishName string) error {
	db := config.GetDB()

	result := db.WithContext(ctx).Where("table_id = ? AND dish_name = ?", tableId, dishName).Delete(&Order{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}

// DeleteOrdersByTable removes every line item for the table and reports how
// many were deleted. Zero rows is success.
func DeleteOrdersByTable(ctx context.Context, tableId int) (int64, error) {
	db := config.GetDB()

	result := db.WithContext(ctx).Where("table_id = ?", tableId).Delete(&Order{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func DeleteAllOrders(ctx context.Context) error {
	db := config.GetDB()

	return db.WithContext(ctx).Where("1 = 1").Delete(&Order{}).Error
}

func DeleteOrderById(ctx context.Context, id int) error {
	db := config.GetDB()

	result := db.WithContext(ctx).Where("id = ?", id).Delete(&Order{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}
