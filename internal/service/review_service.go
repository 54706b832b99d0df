package service

import (
	"errors"
	"fmt"

	"go-store-api/internal/model"
	"go-store-api/internal/repository"
	"go-store-api/pkg/validator"

	"github.com/google/uuid"
)

type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title   string `json:"title" validate:"required"`
	Comment string `json:"comment"`
	Pros    string `json:"pros"`
	Cons    string `json:"cons"`
}

type ReviewService interface {
	AddReview(userID, productID uuid.UUID, req *ReviewRequest) (*model.Review, error)
	UpdateReview(userID, reviewID uuid.UUID, req *ReviewRequest) (*model.Review, error)
	DeleteReview(userID, reviewID uuid.UUID) error
	ListByUser(userID uuid.UUID) ([]model.Review, error)
	ListPending() ([]model.Review, error)
	Approve(reviewID uuid.UUID) (*model.Review, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, productRepo: productRepo}
}

func (s *reviewService) AddReview(userID, productID uuid.UUID, req *ReviewRequest) (*model.Review, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if _, err := s.productRepo.FindByID(productID); err != nil {
		return nil, ErrProductNotFound
	}

	exists, err := s.reviewRepo.ExistsForUserProduct(userID, productID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	// Verified purchase: the user has a delivered order containing this
	// product.
	purchased, err := s.reviewRepo.HasDeliveredOrder(userID, productID)
	if err != nil {
		return nil, err
	}

	review := &model.Review{
		ProductID:        productID,
		UserID:           userID,
		Rating:           req.Rating,
		Title:            req.Title,
		Comment:          req.Comment,
		Pros:             req.Pros,
		Cons:             req.Cons,
		VerifiedPurchase: purchased,
		IsApproved:       false, // visible after moderation
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) UpdateReview(userID, reviewID uuid.UUID, req *ReviewRequest) (*model.Review, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		return nil, errors.New("review not found")
	}
	if review.UserID != userID {
		return nil, errors.New("review does not belong to this user")
	}

	review.Rating = req.Rating
	review.Title = req.Title
	review.Comment = req.Comment
	review.Pros = req.Pros
	review.Cons = req.Cons
	// Edits go back through moderation
	review.IsApproved = false

	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) DeleteReview(userID, reviewID uuid.UUID) error {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		return errors.New("review not found")
	}
	if review.UserID != userID {
		return errors.New("review does not belong to this user")
	}
	return s.reviewRepo.Delete(reviewID)
}

func (s *reviewService) ListByUser(userID uuid.UUID) ([]model.Review, error) {
	return s.reviewRepo.FindByUser(userID)
}

func (s *reviewService) ListPending() ([]model.Review, error) {
	return s.reviewRepo.FindPending()
}

func (s *reviewService) Approve(reviewID uuid.UUID) (*model.Review, error) {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		return nil, errors.New("review not found")
	}
	review.IsApproved = true
	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}
	return review, nil
}
