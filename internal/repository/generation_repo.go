package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/repurpose_server/internal/model"
)

type GenerationRepository struct {
	db *gorm.DB
}

func NewGenerationRepository(db *gorm.DB) *GenerationRepository {
	return &GenerationRepository{db: db}
}

func (r *GenerationRepository) Create(gen *model.Generation) error {
	return r.db.Create(gen).Error
}

func (r *GenerationRepository) GetByID(id int64) (*model.Generation, error) {
	var gen model.Generation
	err := r.db.Where("id = ?", id).First(&gen).Error
	if err != nil {
		return nil, err
	}
	return &gen, nil
}

// ListByUserID 按时间倒序返回用户的全部记录
func (r *GenerationRepository) ListByUserID(userID int64) ([]model.Generation, error) {
	var gens []model.Generation
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&gens).Error
	return gens, err
}

func (r *GenerationRepository) Delete(id int64) error {
	return r.db.Delete(&model.Generation{}, id).Error
}
