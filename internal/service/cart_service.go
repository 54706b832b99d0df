package service

import (
	"go-store-api/internal/model"
	"go-store-api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartService interface {
	GetCart(owner repository.CartOwner) (*model.Cart, error)
	AddItem(owner repository.CartOwner, productID uuid.UUID, variantID *uuid.UUID, quantity int) (*model.Cart, error)
	UpdateQuantity(owner repository.CartOwner, itemID uuid.UUID, quantity int) (*model.Cart, error)
	RemoveItem(owner repository.CartOwner, itemID uuid.UUID) (*model.Cart, error)
	Clear(owner repository.CartOwner) error
	MergeOnLogin(sessionKey string, userID uuid.UUID) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	stockRepo   repository.StockRepository
	txRunner    repository.TxRunner
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
	txRunner repository.TxRunner,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		stockRepo:   stockRepo,
		txRunner:    txRunner,
	}
}

// GetCart returns the owner's cart, creating an empty one on first access.
func (s *cartService) GetCart(owner repository.CartOwner) (*model.Cart, error) {
	return s.cartRepo.FindOrCreateByOwner(owner)
}

func (s *cartService) AddItem(owner repository.CartOwner, productID uuid.UUID, variantID *uuid.UUID, quantity int) (*model.Cart, error) {
	if quantity <= 0 {
		return nil, ErrItemNotFound
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		return nil, ErrProductNotFound
	}
	if product.Status != model.ProductActive {
		return nil, ErrProductUnavailable
	}

	// Unit price snapshot: selling price plus variant adjustment, frozen at
	// this instant.
	price := product.SellingPrice
	if variantID != nil {
		variant, err := s.productRepo.FindVariant(*variantID)
		if err != nil {
			return nil, ErrProductNotFound
		}
		if variant.ProductID != product.ID {
			return nil, ErrVariantMismatch
		}
		price = variant.UnitPrice(product)
	}

	if err := s.checkStock(product, variantID, quantity); err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.FindOrCreateByOwner(owner)
	if err != nil {
		return nil, err
	}

	// Identical (product, variant) lines are summed, not duplicated
	line, err := s.cartRepo.FindLine(cart.ID, product.ID, variantID)
	if err == nil {
		line.Quantity += quantity
		if err := s.cartRepo.UpdateItem(line); err != nil {
			return nil, err
		}
	} else if err == gorm.ErrRecordNotFound {
		line = &model.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			VariantID: variantID,
			Quantity:  quantity,
			Price:     price.Round(2),
		}
		if err := s.cartRepo.CreateItem(line); err != nil {
			return nil, err
		}
	} else {
		return nil, err
	}

	return s.cartRepo.FindByOwner(owner)
}

// UpdateQuantity overwrites a line's quantity. A quantity of zero or less
// removes the line. Increases are re-validated against current stock.
func (s *cartService) UpdateQuantity(owner repository.CartOwner, itemID uuid.UUID, quantity int) (*model.Cart, error) {
	cart, err := s.cartRepo.FindByOwner(owner)
	if err != nil {
		return nil, ErrCartNotFound
	}
	item, err := s.cartRepo.FindItem(cart.ID, itemID)
	if err != nil {
		return nil, ErrItemNotFound
	}

	if quantity <= 0 {
		if err := s.cartRepo.DeleteItem(item.ID); err != nil {
			return nil, err
		}
		return s.cartRepo.FindByOwner(owner)
	}

	if quantity > item.Quantity && item.Product != nil {
		if err := s.checkStock(item.Product, item.VariantID, quantity); err != nil {
			return nil, err
		}
	}

	item.Quantity = quantity
	if err := s.cartRepo.UpdateItem(item); err != nil {
		return nil, err
	}
	return s.cartRepo.FindByOwner(owner)
}

func (s *cartService) RemoveItem(owner repository.CartOwner, itemID uuid.UUID) (*model.Cart, error) {
	cart, err := s.cartRepo.FindByOwner(owner)
	if err != nil {
		return nil, ErrCartNotFound
	}
	item, err := s.cartRepo.FindItem(cart.ID, itemID)
	if err != nil {
		return nil, ErrItemNotFound
	}
	if err := s.cartRepo.DeleteItem(item.ID); err != nil {
		return nil, err
	}
	return s.cartRepo.FindByOwner(owner)
}

func (s *cartService) Clear(owner repository.CartOwner) error {
	cart, err := s.cartRepo.FindByOwner(owner)
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	return s.txRunner.Transaction(func(tx *gorm.DB) error {
		return s.cartRepo.ClearItems(tx, cart.ID)
	})
}

// MergeOnLogin reassigns every guest line to the user's cart wholesale and
// discards the guest cart. Lines are not de-duplicated against existing
// user lines.
func (s *cartService) MergeOnLogin(sessionKey string, userID uuid.UUID) error {
	sessionCart, err := s.cartRepo.FindByOwner(repository.SessionOwner(sessionKey))
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	userCart, err := s.cartRepo.FindOrCreateByOwner(repository.UserOwner(userID))
	if err != nil {
		return err
	}

	return s.txRunner.Transaction(func(tx *gorm.DB) error {
		if err := s.cartRepo.ReassignItems(tx, sessionCart.ID, userCart.ID); err != nil {
			return err
		}
		return s.cartRepo.DeleteCart(tx, sessionCart.ID)
	})
}

// checkStock enforces the counter of the variant when present, else the
// product's, unless inventory is untracked or backorder is allowed.
func (s *cartService) checkStock(product *model.Product, variantID *uuid.UUID, quantity int) error {
	if !product.TrackInventory || product.AllowBackorder {
		return nil
	}
	available, err := s.stockRepo.Available(repository.StockRef{
		ProductID: product.ID,
		VariantID: variantID,
	})
	if err != nil {
		return err
	}
	if quantity > available {
		return ErrInsufficientStock
	}
	return nil
}
