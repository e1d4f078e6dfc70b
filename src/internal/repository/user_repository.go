package repository

import (
	"context"

	"kotidham-service/src/internal/entity"
	"kotidham-service/src/pkg/databases/mysql"
)

type UserRepository struct {
	DB mysql.DBInterface
}

func NewUserRepository(db mysql.DBInterface) *UserRepository {
	return &UserRepository{
		DB: db,
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var user entity.User
	query := `SELECT id, name, email, mobile, role, created_at FROM users WHERE id = ?`
	if err := db.GetContext(ctx, &user, query, id); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}
