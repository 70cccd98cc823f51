package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kandidou391-dotcom/pfe/internal/model"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	// GetByID 未找到时返回 mongo.ErrNoDocuments
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	// RoleBreakdown 按角色分组计数，学生额外按性别计数
	RoleBreakdown(ctx context.Context) ([]model.RoleCount, error)
}

type userRepo struct {
	collection
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *mongo.Database, timeout time.Duration) UserRepository {
	return &userRepo{newCollection(db, model.CollectionUsers, timeout)}
}

func (r *userRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"prenom": 1, "nom": 1, "sexe": 1, "email": 1, "role": 1, "classe": 1})

	var user model.User
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) RoleBreakdown(ctx context.Context) ([]model.RoleCount, error) {
	isStudent := bson.M{"$in": bson.A{"$role", bson.A{model.StoredRoleStudent, string(model.RoleStudent)}}}
	studentOfGender := func(gender string) bson.M {
		return bson.M{"$cond": bson.A{
			bson.M{"$and": bson.A{isStudent, bson.M{"$eq": bson.A{"$sexe", gender}}}},
			1,
			0,
		}}
	}

	pipeline := []bson.M{
		{"$group": bson.M{
			"_id":         "$role",
			"count":       bson.M{"$sum": 1},
			"maleCount":   bson.M{"$sum": studentOfGender(model.GenderMale)},
			"femaleCount": bson.M{"$sum": studentOfGender(model.GenderFemale)},
		}},
	}

	var out []model.RoleCount
	if err := r.aggregate(ctx, pipeline, &out); err != nil {
		return nil, err
	}
	return out, nil
}
