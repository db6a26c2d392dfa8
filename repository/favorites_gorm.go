package repository

import (
	"context"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// favoriteGroupModel is the persistence model. Domain structs stay free
// of gorm tags.
type favoriteGroupModel struct {
	GroupID   string    `gorm:"primaryKey;column:group_id"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (favoriteGroupModel) TableName() string {
	return "favorite_groups"
}

// FavoritesGormRepository implements group.IFavoritesRepository using GORM.
type FavoritesGormRepository struct {
	db *gorm.DB
}

func NewFavoritesGormRepository(db *gorm.DB) *FavoritesGormRepository {
	return &FavoritesGormRepository{db: db}
}

// OpenFavoritesDB opens (or creates) the sqlite database backing the
// favorite-group store.
func OpenFavoritesDB(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// Init initializes the schema with AutoMigrate.
func (r *FavoritesGormRepository) Init(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&favoriteGroupModel{})
}

// List returns the IDs of all favorited groups, oldest first.
func (r *FavoritesGormRepository) List(ctx context.Context) ([]string, error) {
	var models []favoriteGroupModel
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(models))
	for i, m := range models {
		ids[i] = m.GroupID
	}
	return ids, nil
}

// Toggle flips the favorite state of a group and reports the new state.
func (r *FavoritesGormRepository) Toggle(ctx context.Context, groupID string) (bool, error) {
	var existing favoriteGroupModel
	err := r.db.WithContext(ctx).First(&existing, "group_id = ?", groupID).Error
	if err == nil {
		if err := r.db.WithContext(ctx).Delete(&existing).Error; err != nil {
			return false, err
		}
		return false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return false, err
	}
	model := favoriteGroupModel{GroupID: groupID}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return false, err
	}
	return true, nil
}
