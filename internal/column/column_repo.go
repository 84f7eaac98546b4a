package column

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=column_repo.go -destination=mock/column_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, col *Column) error
	FindAll(ctx context.Context) ([]Column, error)
	FindByID(ctx context.Context, id string) (*Column, error)
	FindByNameKey(ctx context.Context, nameKey string) (*Column, error)
	FindByNameKeys(ctx context.Context, nameKeys []string) ([]Column, error)
	Update(ctx context.Context, col *Column) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) Create(ctx context.Context, col *Column) error {
	return r.db.WithContext(ctx).Create(col).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Column, error) {
	var cols []Column
	err := r.db.WithContext(ctx).Find(&cols).Error
	return cols, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Column, error) {
	var col Column
	err := r.db.WithContext(ctx).First(&col, "id = ?", id).Error
	return &col, err
}

func (r *repository) FindByNameKey(ctx context.Context, nameKey string) (*Column, error) {
	var col Column
	err := r.db.WithContext(ctx).First(&col, "name_key = ?", nameKey).Error
	return &col, err
}

func (r *repository) FindByNameKeys(ctx context.Context, nameKeys []string) ([]Column, error) {
	var cols []Column
	err := r.db.WithContext(ctx).
		Where("name_key IN ?", nameKeys).
		Find(&cols).Error
	return cols, err
}

func (r *repository) Update(ctx context.Context, col *Column) error {
	return r.db.WithContext(ctx).Save(col).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&Column{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
