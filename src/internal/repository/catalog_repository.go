package repository

import (
	"context"
	"errors"
	"strings"

	"kotidham-service/src/internal/entity"

	"gorm.io/gorm"
)

// CatalogRepository is the admin-editable catalog: pujas, temples, plans, chadawas, products and promo codes.
type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{
		DB: db,
	}
}

func gormErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return translate(err)
}

func create[T any](ctx context.Context, db *gorm.DB, v *T) error {
	return gormErr(db.WithContext(ctx).Create(v).Error)
}

func findByID[T any](ctx context.Context, db *gorm.DB, id int64) (*T, error) {
	var v T
	if err := db.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		return nil, gormErr(err)
	}
	return &v, nil
}

func list[T any](ctx context.Context, db *gorm.DB, activeOnly bool, skip, limit int) ([]T, error) {
	skip, limit = paging(skip, limit)
	out := make([]T, 0)
	q := db.WithContext(ctx).Order("id").Offset(skip).Limit(limit)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, gormErr(err)
	}
	return out, nil
}

func updateByID[T any](ctx context.Context, db *gorm.DB, id int64, cols map[string]interface{}) (*T, error) {
	if _, err := findByID[T](ctx, db, id); err != nil {
		return nil, err
	}
	if len(cols) > 0 {
		if err := db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(cols).Error; err != nil {
			return nil, gormErr(err)
		}
	}
	return findByID[T](ctx, db, id)
}

func deleteByID[T any](ctx context.Context, db *gorm.DB, id int64) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return gormErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CatalogRepository) CreatePuja(ctx context.Context, v *entity.Puja) error {
	return create(ctx, r.DB, v)
}

func (r *CatalogRepository) FindPuja(ctx context.Context, id int64) (*entity.Puja, error) {
	return findByID[entity.Puja](ctx, r.DB, id)
}

func (r *CatalogRepository) ListPujas(ctx context.Context, activeOnly bool, skip, limit int) ([]entity.Puja, error) {
	return list[entity.Puja](ctx, r.DB, activeOnly, skip, limit)
}

func (r *CatalogRepository) UpdatePuja(ctx context.Context, id int64, cols map[string]interface{}) (*entity.Puja, error) {
	return updateByID[entity.Puja](ctx, r.DB, id, cols)
}

func (r *CatalogRepository) DeletePuja(ctx context.Context, id int64) error {
	return deleteByID[entity.Puja](ctx, r.DB, id)
}

func (r *CatalogRepository) CreateTemple(ctx context.Context, v *entity.Temple) error {
	return create(ctx, r.DB, v)
}

func (r *CatalogRepository) FindTemple(ctx context.Context, id int64) (*entity.Temple, error) {
	return findByID[entity.Temple](ctx, r.DB, id)
}

func (r *CatalogRepository) ListTemples(ctx context.Context, activeOnly bool, skip, limit int) ([]entity.Temple, error) {
	return list[entity.Temple](ctx, r.DB, activeOnly, skip, limit)
}

func (r *CatalogRepository) UpdateTemple(ctx context.Context, id int64, cols map[string]interface{}) (*entity.Temple, error) {
	return updateByID[entity.Temple](ctx, r.DB, id, cols)
}

func (r *CatalogRepository) DeleteTemple(ctx context.Context, id int64) error {
	return deleteByID[entity.Temple](ctx, r.DB, id)
}

func (r *CatalogRepository) CreatePlan(ctx context.Context, v *entity.Plan) error {
	return create(ctx, r.DB, v)
}

func (r *CatalogRepository) FindPlan(ctx context.Context, id int64) (*entity.Plan, error) {
	return findByID[entity.Plan](ctx, r.DB, id)
}

func (r *CatalogRepository) ListPlans(ctx context.Context, skip, limit int) ([]entity.Plan, error) {
	return list[entity.Plan](ctx, r.DB, false, skip, limit)
}

func (r *CatalogRepository) UpdatePlan(ctx context.Context, id int64, cols map[string]interface{}) (*entity.Plan, error) {
	return updateByID[entity.Plan](ctx, r.DB, id, cols)
}

func (r *CatalogRepository) DeletePlan(ctx context.Context, id int64) error {
	return deleteByID[entity.Plan](ctx, r.DB, id)
}

func (r *CatalogRepository) CreateChadawa(ctx context.Context, v *entity.Chadawa) error {
	return create(ctx, r.DB, v)
}

func (r *CatalogRepository) FindChadawa(ctx context.Context, id int64) (*entity.Chadawa, error) {
	return findByID[entity.Chadawa](ctx, r.DB, id)
}

func (r *CatalogRepository) ListChadawas(ctx context.Context, skip, limit int) ([]entity.Chadawa, error) {
	return list[entity.Chadawa](ctx, r.DB, false, skip, limit)
}

// FindChadawasByIDs returns the chadawas keyed by id. Unknown ids are simply absent.
func (r *CatalogRepository) FindChadawasByIDs(ctx context.Context, ids []int64) (map[int64]entity.Chadawa, error) {
	out := make(map[int64]entity.Chadawa, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows := make([]entity.Chadawa, 0, len(ids))
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, gormErr(err)
	}
	for _, c := range rows {
		out[c.ID] = c
	}
	return out, nil
}

func (r *CatalogRepository) UpdateChadawa(ctx context.Context, id int64, cols map[string]interface{}) (*entity.Chadawa, error) {
	return updateByID[entity.Chadawa](ctx, r.DB, id, cols)
}

func (r *CatalogRepository) DeleteChadawa(ctx context.Context, id int64) error {
	return deleteByID[entity.Chadawa](ctx, r.DB, id)
}

func (r *CatalogRepository) CreateProduct(ctx context.Context, v *entity.Product) error {
	return create(ctx, r.DB, v)
}

func (r *CatalogRepository) FindProduct(ctx context.Context, id int64) (*entity.Product, error) {
	return findByID[entity.Product](ctx, r.DB, id)
}

func (r *CatalogRepository) ListProducts(ctx context.Context, activeOnly bool, skip, limit int) ([]entity.Product, error) {
	return list[entity.Product](ctx, r.DB, activeOnly, skip, limit)
}

func (r *CatalogRepository) FindProductsByIDs(ctx context.Context, ids []int64) (map[int64]entity.Product, error) {
	out := make(map[int64]entity.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows := make([]entity.Product, 0, len(ids))
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, gormErr(err)
	}
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

func (r *CatalogRepository) UpdateProduct(ctx context.Context, id int64, cols map[string]interface{}) (*entity.Product, error) {
	return updateByID[entity.Product](ctx, r.DB, id, cols)
}

func (r *CatalogRepository) DeleteProduct(ctx context.Context, id int64) error {
	return deleteByID[entity.Product](ctx, r.DB, id)
}

func (r *CatalogRepository) CreatePromoCode(ctx context.Context, v *entity.PromoCode) error {
	return create(ctx, r.DB, v)
}

func (r *CatalogRepository) FindPromoCode(ctx context.Context, id int64) (*entity.PromoCode, error) {
	return findByID[entity.PromoCode](ctx, r.DB, id)
}

func (r *CatalogRepository) FindPromoByCode(ctx context.Context, code string) (*entity.PromoCode, error) {
	var promo entity.PromoCode
	err := r.DB.WithContext(ctx).Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&promo).Error
	if err != nil {
		return nil, gormErr(err)
	}
	return &promo, nil
}

func (r *CatalogRepository) ListPromoCodes(ctx context.Context, activeOnly bool, skip, limit int) ([]entity.PromoCode, error) {
	return list[entity.PromoCode](ctx, r.DB, activeOnly, skip, limit)
}

func (r *CatalogRepository) UpdatePromoCode(ctx context.Context, id int64, cols map[string]interface{}) (*entity.PromoCode, error) {
	return updateByID[entity.PromoCode](ctx, r.DB, id, cols)
}

func (r *CatalogRepository) DeletePromoCode(ctx context.Context, id int64) error {
	return deleteByID[entity.PromoCode](ctx, r.DB, id)
}
