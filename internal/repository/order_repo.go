package repository

import (
	"time"

	"go-store-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SalesMovementData is one day of order volume for the dashboard chart.
type SalesMovementData struct {
	Date    string          `json:"date"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// DashboardStats is the merchant overview.
type DashboardStats struct {
	TotalProducts int64           `json:"total_products"`
	LowStockCount int64           `json:"low_stock_count"`
	OrdersToday   int64           `json:"orders_today"`
	PendingOrders int64           `json:"pending_orders"`
	Revenue       decimal.Decimal `json:"revenue"`
}

// OrderPage is one page of the admin order listing.
type OrderPage struct {
	Items   []model.Order `json:"items"`
	Total   int64         `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	NumberExists(tx *gorm.DB, number string) (bool, error)
	FindByID(id uuid.UUID) (*model.Order, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Order, error)
	FindByNumber(number string) (*model.Order, error)
	FindByUser(userID uuid.UUID) ([]model.Order, error)
	FindAll(status model.OrderStatus, page, perPage int) (*OrderPage, error)
	Save(tx *gorm.DB, order *model.Order) error
	GetDashboardStats() (*DashboardStats, error)
	GetSalesMovement(startDate, endDate time.Time) ([]SalesMovementData, error)
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) Create(tx *gorm.DB, order *model.Order) error {
	return tx.Create(order).Error
}

func (r *orderRepo) NumberExists(tx *gorm.DB, number string) (bool, error) {
	var count int64
	err := tx.Model(&model.Order{}).Where("order_number = ?", number).Count(&count).Error
	return count > 0, err
}

func (r *orderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("Items").First(&order, "id = ?", id).Error
	return &order, err
}

// FindByIDForUpdate locks the order row; status transitions and stock
// restoration run under this lock.
func (r *orderRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := tx.Find(&order.Items, "order_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindByNumber(number string) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("Items").First(&order, "order_number = ?", number).Error
	return &order, err
}

func (r *orderRepo) FindByUser(userID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindAll(status model.OrderStatus, page, perPage int) (*OrderPage, error) {
	query := r.db.Model(&model.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var orders []model.Order
	err := query.Preload("Items").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return &OrderPage{Items: orders, Total: total, Page: page, PerPage: perPage}, nil
}

func (r *orderRepo) Save(tx *gorm.DB, order *model.Order) error {
	return tx.Save(order).Error
}

func (r *orderRepo) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	r.db.Model(&model.Product{}).Count(&stats.TotalProducts)

	// Low stock is derived: 0 < stock <= threshold on tracked products
	r.db.Model(&model.Product{}).
		Where("track_inventory = ? AND stock_quantity > 0 AND stock_quantity <= low_stock_threshold", true).
		Count(&stats.LowStockCount)

	today := time.Now().Truncate(24 * time.Hour)
	r.db.Model(&model.Order{}).Where("created_at >= ?", today).Count(&stats.OrdersToday)

	r.db.Model(&model.Order{}).Where("status = ?", model.OrderPending).Count(&stats.PendingOrders)

	err := r.db.Model(&model.Order{}).
		Where("payment_status = ? AND status <> ?", model.PaymentPaid, model.OrderRefunded).
		Select("COALESCE(SUM(total), 0)").
		Scan(&stats.Revenue).Error

	return &stats, err
}

func (r *orderRepo) GetSalesMovement(startDate, endDate time.Time) ([]SalesMovementData, error) {
	var results []SalesMovementData

	rows, err := r.db.Model(&model.Order{}).
		Select(`
			DATE(created_at) as date,
			COUNT(*) as orders,
			COALESCE(SUM(total), 0) as revenue
		`).
		Where("created_at BETWEEN ? AND ? AND status NOT IN ?",
			startDate, endDate, []model.OrderStatus{model.OrderCancelled, model.OrderRefunded}).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data SalesMovementData
		if err := rows.Scan(&data.Date, &data.Orders, &data.Revenue); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, rows.Err()
}
