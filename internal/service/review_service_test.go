package service

import (
	"testing"

	"go-store-api/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeReviewRepo struct {
	reviews map[uuid.UUID]*model.Review
	// (userID, productID) pairs with a delivered order
	delivered map[string]bool
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{
		reviews:   map[uuid.UUID]*model.Review{},
		delivered: map[string]bool{},
	}
}

func pairKey(userID, productID uuid.UUID) string {
	return userID.String() + "/" + productID.String()
}

func (r *fakeReviewRepo) markDelivered(userID, productID uuid.UUID) {
	r.delivered[pairKey(userID, productID)] = true
}

func (r *fakeReviewRepo) Create(review *model.Review) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	r.reviews[review.ID] = review
	return nil
}

func (r *fakeReviewRepo) Update(review *model.Review) error {
	r.reviews[review.ID] = review
	return nil
}

func (r *fakeReviewRepo) Delete(id uuid.UUID) error {
	delete(r.reviews, id)
	return nil
}

func (r *fakeReviewRepo) FindByID(id uuid.UUID) (*model.Review, error) {
	review, ok := r.reviews[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return review, nil
}

func (r *fakeReviewRepo) FindApprovedByProduct(productID uuid.UUID) ([]model.Review, error) {
	out := []model.Review{}
	for _, review := range r.reviews {
		if review.ProductID == productID && review.IsApproved {
			out = append(out, *review)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) AverageRating(productID uuid.UUID) (float64, error) {
	sum, n := 0, 0
	for _, review := range r.reviews {
		if review.ProductID == productID && review.IsApproved {
			sum += review.Rating
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float64(sum) / float64(n), nil
}

func (r *fakeReviewRepo) FindByUser(userID uuid.UUID) ([]model.Review, error) {
	out := []model.Review{}
	for _, review := range r.reviews {
		if review.UserID == userID {
			out = append(out, *review)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) FindPending() ([]model.Review, error) {
	out := []model.Review{}
	for _, review := range r.reviews {
		if !review.IsApproved {
			out = append(out, *review)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) ExistsForUserProduct(userID, productID uuid.UUID) (bool, error) {
	for _, review := range r.reviews {
		if review.UserID == userID && review.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReviewRepo) HasDeliveredOrder(userID, productID uuid.UUID) (bool, error) {
	return r.delivered[pairKey(userID, productID)], nil
}

func reviewRequest() *ReviewRequest {
	return &ReviewRequest{Rating: 4, Title: "Solid", Comment: "Does the job"}
}

func TestAddReview_VerifiedPurchase(t *testing.T) {
	products := newFakeProductRepo()
	product := products.add(&model.Product{Name: "Widget", SKU: "W-1", Status: model.ProductActive})
	reviews := newFakeReviewRepo()
	svc := NewReviewService(reviews, products)
	userID := uuid.New()

	reviews.markDelivered(userID, product.ID)

	review, err := svc.AddReview(userID, product.ID, reviewRequest())
	require.NoError(t, err)
	assert.True(t, review.VerifiedPurchase)
	assert.False(t, review.IsApproved, "new reviews await moderation")
}

func TestAddReview_UnverifiedWithoutDelivery(t *testing.T) {
	products := newFakeProductRepo()
	product := products.add(&model.Product{Name: "Widget", SKU: "W-1", Status: model.ProductActive})
	svc := NewReviewService(newFakeReviewRepo(), products)

	review, err := svc.AddReview(uuid.New(), product.ID, reviewRequest())
	require.NoError(t, err)
	assert.False(t, review.VerifiedPurchase)
}

func TestAddReview_OnePerUserPerProduct(t *testing.T) {
	products := newFakeProductRepo()
	product := products.add(&model.Product{Name: "Widget", SKU: "W-1", Status: model.ProductActive})
	svc := NewReviewService(newFakeReviewRepo(), products)
	userID := uuid.New()

	_, err := svc.AddReview(userID, product.ID, reviewRequest())
	require.NoError(t, err)

	_, err = svc.AddReview(userID, product.ID, reviewRequest())
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestAddReview_RatingBounds(t *testing.T) {
	products := newFakeProductRepo()
	product := products.add(&model.Product{Name: "Widget", SKU: "W-1", Status: model.ProductActive})
	svc := NewReviewService(newFakeReviewRepo(), products)

	req := reviewRequest()
	req.Rating = 6
	_, err := svc.AddReview(uuid.New(), product.ID, req)
	assert.Error(t, err)

	req.Rating = 0
	_, err = svc.AddReview(uuid.New(), product.ID, req)
	assert.Error(t, err)
}

func TestUpdateReview_BackThroughModeration(t *testing.T) {
	products := newFakeProductRepo()
	product := products.add(&model.Product{Name: "Widget", SKU: "W-1", Status: model.ProductActive})
	reviews := newFakeReviewRepo()
	svc := NewReviewService(reviews, products)
	userID := uuid.New()

	review, err := svc.AddReview(userID, product.ID, reviewRequest())
	require.NoError(t, err)

	approved, err := svc.Approve(review.ID)
	require.NoError(t, err)
	require.True(t, approved.IsApproved)

	req := reviewRequest()
	req.Rating = 2
	updated, err := svc.UpdateReview(userID, review.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Rating)
	assert.False(t, updated.IsApproved, "edits re-enter moderation")
}

func TestUpdateReview_OwnerOnly(t *testing.T) {
	products := newFakeProductRepo()
	product := products.add(&model.Product{Name: "Widget", SKU: "W-1", Status: model.ProductActive})
	svc := NewReviewService(newFakeReviewRepo(), products)

	review, err := svc.AddReview(uuid.New(), product.ID, reviewRequest())
	require.NoError(t, err)

	_, err = svc.UpdateReview(uuid.New(), review.ID, reviewRequest())
	assert.Error(t, err)

	err = svc.DeleteReview(uuid.New(), review.ID)
	assert.Error(t, err)
}
