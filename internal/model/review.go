package model

import "github.com/google/uuid"

type Review struct {
	BaseModel
	ProductID uuid.UUID  `gorm:"type:uuid;not null;index:idx_review_product_user,unique" json:"product_id" validate:"uuid_required"`
	Product   *Product   `gorm:"foreignKey:ProductID" json:"-" validate:"-"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_review_product_user,unique" json:"user_id"`
	User      *User      `gorm:"foreignKey:UserID" json:"user,omitempty" validate:"-"`
	OrderID   *uuid.UUID `gorm:"type:uuid" json:"order_id,omitempty"`

	Rating  int    `gorm:"not null" json:"rating" validate:"required,gte=1,lte=5"`
	Title   string `gorm:"type:varchar(200)" json:"title" validate:"required"`
	Comment string `gorm:"type:text" json:"comment"`
	Pros    string `gorm:"type:text" json:"pros"`
	Cons    string `gorm:"type:text" json:"cons"`

	VerifiedPurchase bool `gorm:"default:false" json:"verified_purchase"`
	IsApproved       bool `gorm:"default:false" json:"is_approved"`
	HelpfulVotes     int  `gorm:"default:0" json:"helpful_votes"`
}

type WishlistItem struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_wishlist_user_product,unique" json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index:idx_wishlist_user_product,unique" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

type NewsletterSubscriber struct {
	BaseModel
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}
