package service

import (
	"time"

	"go-store-api/internal/model"
	"go-store-api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository doubles. The tx argument threaded through the
// transactional methods is ignored; fakeTxRunner passes nil.

type fakeTxRunner struct {
	calls int
}

func (r *fakeTxRunner) Transaction(fn func(tx *gorm.DB) error) error {
	r.calls++
	return fn(nil)
}

type fakeProductRepo struct {
	products map[uuid.UUID]*model.Product
	variants map[uuid.UUID]*model.ProductVariant
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products: map[uuid.UUID]*model.Product{},
		variants: map[uuid.UUID]*model.ProductVariant{},
	}
}

func (r *fakeProductRepo) add(p *model.Product) *model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return p
}

func (r *fakeProductRepo) addVariant(v *model.ProductVariant) *model.ProductVariant {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.variants[v.ID] = v
	return v
}

func (r *fakeProductRepo) Create(product *model.Product) error {
	r.add(product)
	return nil
}

func (r *fakeProductRepo) Update(product *model.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) FindActive(filter repository.ProductFilter) (*repository.ProductPage, error) {
	page := &repository.ProductPage{Page: filter.Page, PerPage: filter.PerPage}
	for _, p := range r.products {
		if p.Status == model.ProductActive {
			page.Items = append(page.Items, *p)
			page.Total++
		}
	}
	return page, nil
}

func (r *fakeProductRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) FindBySlug(slug string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) FindBySKU(sku string) (*model.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) FindVariant(id uuid.UUID) (*model.ProductVariant, error) {
	v, ok := r.variants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *fakeProductRepo) CreateVariant(variant *model.ProductVariant) error {
	r.addVariant(variant)
	return nil
}

func (r *fakeProductRepo) UpdateVariant(variant *model.ProductVariant) error {
	r.variants[variant.ID] = variant
	return nil
}

func (r *fakeProductRepo) FindFeatured(limit int) ([]model.Product, error) {
	return nil, nil
}

type fakeStockRepo struct {
	counters map[string]int
	// untracked counters never fail reservation
	untracked map[string]bool
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{counters: map[string]int{}, untracked: map[string]bool{}}
}

func stockKey(ref repository.StockRef) string {
	if ref.VariantID != nil {
		return ref.ProductID.String() + "/" + ref.VariantID.String()
	}
	return ref.ProductID.String()
}

func (r *fakeStockRepo) set(ref repository.StockRef, qty int) {
	r.counters[stockKey(ref)] = qty
}

func (r *fakeStockRepo) Reserve(tx *gorm.DB, ref repository.StockRef, qty int) error {
	key := stockKey(ref)
	if r.untracked[key] {
		return nil
	}
	if r.counters[key] < qty {
		return repository.ErrInsufficientStock
	}
	r.counters[key] -= qty
	return nil
}

func (r *fakeStockRepo) Release(tx *gorm.DB, ref repository.StockRef, qty int) error {
	r.counters[stockKey(ref)] += qty
	return nil
}

func (r *fakeStockRepo) Available(ref repository.StockRef) (int, error) {
	return r.counters[stockKey(ref)], nil
}

type fakeCartRepo struct {
	carts map[uuid.UUID]*model.Cart
	items map[uuid.UUID]*model.CartItem
	// resolve loaded item associations the way the preloads would
	products *fakeProductRepo
}

func newFakeCartRepo(products *fakeProductRepo) *fakeCartRepo {
	return &fakeCartRepo{
		carts:    map[uuid.UUID]*model.Cart{},
		items:    map[uuid.UUID]*model.CartItem{},
		products: products,
	}
}

func ownerMatches(cart *model.Cart, owner repository.CartOwner) bool {
	if owner.UserID != nil {
		return cart.UserID != nil && *cart.UserID == *owner.UserID
	}
	return cart.UserID == nil && cart.SessionKey != nil && *cart.SessionKey == *owner.SessionKey
}

func (r *fakeCartRepo) FindByOwner(owner repository.CartOwner) (*model.Cart, error) {
	for _, cart := range r.carts {
		if ownerMatches(cart, owner) {
			return r.load(cart), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCartRepo) FindOrCreateByOwner(owner repository.CartOwner) (*model.Cart, error) {
	if cart, err := r.FindByOwner(owner); err == nil {
		return cart, nil
	}
	cart := &model.Cart{UserID: owner.UserID, SessionKey: owner.SessionKey}
	cart.ID = uuid.New()
	r.carts[cart.ID] = cart
	return r.load(cart), nil
}

// load returns a copy with Items populated, mimicking the preload.
func (r *fakeCartRepo) load(cart *model.Cart) *model.Cart {
	out := *cart
	out.Items = nil
	for _, item := range r.items {
		if item.CartID == cart.ID {
			line := *item
			if r.products != nil {
				if p, err := r.products.FindByID(line.ProductID); err == nil {
					line.Product = p
				}
				if line.VariantID != nil {
					if v, err := r.products.FindVariant(*line.VariantID); err == nil {
						line.Variant = v
					}
				}
			}
			out.Items = append(out.Items, line)
		}
	}
	return &out
}

func (r *fakeCartRepo) FindItem(cartID, itemID uuid.UUID) (*model.CartItem, error) {
	item, ok := r.items[itemID]
	if !ok || item.CartID != cartID {
		return nil, gorm.ErrRecordNotFound
	}
	line := *item
	if r.products != nil {
		if p, err := r.products.FindByID(line.ProductID); err == nil {
			line.Product = p
		}
	}
	return &line, nil
}

func (r *fakeCartRepo) FindLine(cartID, productID uuid.UUID, variantID *uuid.UUID) (*model.CartItem, error) {
	for _, item := range r.items {
		if item.CartID != cartID || item.ProductID != productID {
			continue
		}
		if (item.VariantID == nil) != (variantID == nil) {
			continue
		}
		if variantID != nil && *item.VariantID != *variantID {
			continue
		}
		return item, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCartRepo) CreateItem(item *model.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items[item.ID] = item
	return nil
}

func (r *fakeCartRepo) UpdateItem(item *model.CartItem) error {
	stored := *item
	stored.Product = nil
	stored.Variant = nil
	r.items[item.ID] = &stored
	return nil
}

func (r *fakeCartRepo) DeleteItem(itemID uuid.UUID) error {
	delete(r.items, itemID)
	return nil
}

func (r *fakeCartRepo) ClearItems(tx *gorm.DB, cartID uuid.UUID) error {
	for id, item := range r.items {
		if item.CartID == cartID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *fakeCartRepo) ReassignItems(tx *gorm.DB, fromCartID, toCartID uuid.UUID) error {
	for _, item := range r.items {
		if item.CartID == fromCartID {
			item.CartID = toCartID
		}
	}
	return nil
}

func (r *fakeCartRepo) DeleteCart(tx *gorm.DB, cartID uuid.UUID) error {
	delete(r.carts, cartID)
	return nil
}

type fakeCouponRepo struct {
	coupons map[uuid.UUID]*model.Coupon
}

func newFakeCouponRepo() *fakeCouponRepo {
	return &fakeCouponRepo{coupons: map[uuid.UUID]*model.Coupon{}}
}

func (r *fakeCouponRepo) add(c *model.Coupon) *model.Coupon {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.coupons[c.ID] = c
	return c
}

func (r *fakeCouponRepo) Create(coupon *model.Coupon) error {
	r.add(coupon)
	return nil
}

func (r *fakeCouponRepo) Update(coupon *model.Coupon) error {
	r.coupons[coupon.ID] = coupon
	return nil
}

func (r *fakeCouponRepo) Delete(id uuid.UUID) error {
	delete(r.coupons, id)
	return nil
}

func (r *fakeCouponRepo) FindAll() ([]model.Coupon, error) {
	out := []model.Coupon{}
	for _, c := range r.coupons {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCouponRepo) FindByID(id uuid.UUID) (*model.Coupon, error) {
	c, ok := r.coupons[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeCouponRepo) FindByCode(code string) (*model.Coupon, error) {
	for _, c := range r.coupons {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCouponRepo) ConsumeUsage(tx *gorm.DB, id uuid.UUID) error {
	c, ok := r.coupons[id]
	if !ok || c.UsedCount >= c.UsageLimit {
		return repository.ErrCouponExhausted
	}
	c.UsedCount++
	return nil
}

type fakeSettingsRepo struct {
	settings model.SiteSettings
}

func (r *fakeSettingsRepo) Get() (*model.SiteSettings, error) {
	s := r.settings
	return &s, nil
}

func (r *fakeSettingsRepo) Update(settings *model.SiteSettings) error {
	r.settings = *settings
	return nil
}

type fakeOrderRepo struct {
	orders map[uuid.UUID]*model.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[uuid.UUID]*model.Order{}}
}

func (r *fakeOrderRepo) Create(tx *gorm.DB, order *model.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) NumberExists(tx *gorm.DB, number string) (bool, error) {
	for _, o := range r.orders {
		if o.OrderNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOrderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *fakeOrderRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	return r.FindByID(id)
}

func (r *fakeOrderRepo) FindByNumber(number string) (*model.Order, error) {
	for _, o := range r.orders {
		if o.OrderNumber == number {
			copied := *o
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) FindByUser(userID uuid.UUID) ([]model.Order, error) {
	out := []model.Order{}
	for _, o := range r.orders {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) FindAll(status model.OrderStatus, page, perPage int) (*repository.OrderPage, error) {
	out := &repository.OrderPage{Page: page, PerPage: perPage}
	for _, o := range r.orders {
		if status == "" || o.Status == status {
			out.Items = append(out.Items, *o)
			out.Total++
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) Save(tx *gorm.DB, order *model.Order) error {
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) GetDashboardStats() (*repository.DashboardStats, error) {
	return &repository.DashboardStats{}, nil
}

func (r *fakeOrderRepo) GetSalesMovement(startDate, endDate time.Time) ([]repository.SalesMovementData, error) {
	return nil, nil
}

type fakeNotifier struct {
	created chan *model.Order
	err     error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{created: make(chan *model.Order, 8)}
}

func (n *fakeNotifier) OrderCreated(order *model.Order) error {
	n.created <- order
	return n.err
}
