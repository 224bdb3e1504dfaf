package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/finance-tracker/finance-api/internal/core/domain"
)

type ProfileRepository struct {
	coll *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{coll: db.Collection(profilesCollection)}
}

type mongoProfile struct {
	UserID               string   `bson:"user_id"`
	MonthlyIncome        *float64 `bson:"monthly_income"`
	MonthlySavingsTarget *float64 `bson:"monthly_savings_target"`
	MonthlyExpenseTarget *float64 `bson:"monthly_expense_target"`
	UpdatedAt            int64    `bson:"updated_at"`
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	var mp mongoProfile
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return mp.toDomain(), nil
}

// Upsert replaces the stored targets for the profile's user, inserting the
// document on first save.
func (r *ProfileRepository) Upsert(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	update := bson.M{"$set": bson.M{
		"monthly_income":         p.MonthlyIncome,
		"monthly_savings_target": p.MonthlySavingsTarget,
		"monthly_expense_target": p.MonthlyExpenseTarget,
		"updated_at":             p.UpdatedAt.Unix(),
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var mp mongoProfile
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"user_id": p.UserID}, update, opts).Decode(&mp); err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return mp.toDomain(), nil
}

func (mp mongoProfile) toDomain() *domain.Profile {
	return &domain.Profile{
		UserID:               mp.UserID,
		MonthlyIncome:        mp.MonthlyIncome,
		MonthlySavingsTarget: mp.MonthlySavingsTarget,
		MonthlyExpenseTarget: mp.MonthlyExpenseTarget,
		UpdatedAt:            unixToTime(mp.UpdatedAt),
	}
}
