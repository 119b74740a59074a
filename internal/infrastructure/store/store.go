// Package store 本地食譜資料庫（SQLite），依瀏覽器 session 分開，只支援新增、列出與依 id 刪除
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cocktail-web/internal/pkg/common"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recipeModel cocktails 資料表，Seq 保留寫入順序，Owner 為 session id
type recipeModel struct {
	Seq                 uint   `gorm:"primaryKey;autoIncrement;index:idx_owner_seq,priority:2"`
	Owner               string `gorm:"not null;default:'';index:idx_owner_seq,priority:1;uniqueIndex:idx_owner_id,priority:1"`
	ID                  string `gorm:"column:id;not null;uniqueIndex:idx_owner_id,priority:2"`
	Name                string `gorm:"not null"`
	Description         string
	Steps               datatypes.JSON `gorm:"type:json"`
	IsAlcoholic         bool
	Mixers              datatypes.JSON `gorm:"type:json"`
	Size                string
	Cost                float64
	Complexity          string
	RequiredIngredients datatypes.JSON `gorm:"type:json"`
	RequiredTools       datatypes.JSON `gorm:"type:json"`
	BaseIngredients     datatypes.JSON `gorm:"type:json"`
	CreatedAt           time.Time
}

// TableName 資料表名稱
func (recipeModel) TableName() string {
	return "cocktails"
}

var errMissingOwner = errors.New("owner is required")

// Store 本地食譜儲存
type Store struct {
	db *gorm.DB
}

// Open 開啟（必要時建立）資料庫並執行遷移
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, common.NewStorageError("open", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, common.NewStorageError("open", err)
	}

	if err := db.AutoMigrate(&recipeModel{}); err != nil {
		return nil, common.NewStorageError("migrate", err)
	}

	common.LogInfo("本地食譜資料庫已開啟", zap.String("path", path))
	return &Store{db: db}, nil
}

// Insert 新增一筆屬於 owner 的食譜
func (s *Store) Insert(ctx context.Context, owner string, recipe common.Recipe) error {
	if owner == "" {
		return common.NewStorageError("insert", errMissingOwner)
	}
	model, err := toModel(recipe)
	if err != nil {
		return common.NewStorageError("insert", err)
	}
	model.Owner = owner

	if err := s.db.WithContext(ctx).Create(model).Error; err != nil {
		return common.NewStorageError("insert", fmt.Errorf("recipe %s: %w", recipe.ID, err))
	}

	common.LogDebug("食譜已儲存", zap.String("id", recipe.ID), zap.String("name", recipe.Name))
	return nil
}

// List 依寫入順序回傳 owner 的食譜，沒有資料時回傳空切片
func (s *Store) List(ctx context.Context, owner string) ([]common.Recipe, error) {
	var models []recipeModel
	if err := s.db.WithContext(ctx).Where("owner = ?", owner).Order("seq ASC").Find(&models).Error; err != nil {
		return nil, common.NewStorageError("list", err)
	}

	recipes := make([]common.Recipe, 0, len(models))
	for i := range models {
		recipe, err := fromModel(&models[i])
		if err != nil {
			return nil, common.NewStorageError("list", err)
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

// Delete 刪除 owner 的指定食譜，不存在或屬於別人時不回錯
func (s *Store) Delete(ctx context.Context, owner, id string) error {
	result := s.db.WithContext(ctx).Where("owner = ? AND id = ?", owner, id).Delete(&recipeModel{})
	if result.Error != nil {
		return common.NewStorageError("delete", fmt.Errorf("recipe %s: %w", id, result.Error))
	}

	common.LogDebug("食譜刪除", zap.String("id", id), zap.Int64("rows", result.RowsAffected))
	return nil
}

// Ping 檢查資料庫是否可用
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return common.NewStorageError("ping", err)
	}
	return common.NewStorageError("ping", sqlDB.PingContext(ctx))
}

// Close 關閉資料庫
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return common.NewStorageError("close", err)
	}
	return common.NewStorageError("close", sqlDB.Close())
}

func toModel(r common.Recipe) (*recipeModel, error) {
	steps, err := json.Marshal(r.Steps)
	if err != nil {
		return nil, err
	}
	mixers, err := marshalList(r.Mixers)
	if err != nil {
		return nil, err
	}
	ingredients, err := marshalList(r.RequiredIngredients)
	if err != nil {
		return nil, err
	}
	tools, err := marshalList(r.RequiredTools)
	if err != nil {
		return nil, err
	}
	base, err := marshalList(r.BaseIngredients)
	if err != nil {
		return nil, err
	}

	return &recipeModel{
		ID:                  r.ID,
		Name:                r.Name,
		Description:         r.Description,
		Steps:               datatypes.JSON(steps),
		IsAlcoholic:         r.IsAlcoholic,
		Mixers:              mixers,
		Size:                r.Size,
		Cost:                r.Cost,
		Complexity:          r.Complexity,
		RequiredIngredients: ingredients,
		RequiredTools:       tools,
		BaseIngredients:     base,
	}, nil
}

func fromModel(m *recipeModel) (common.Recipe, error) {
	r := common.Recipe{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		IsAlcoholic: m.IsAlcoholic,
		Size:        m.Size,
		Cost:        m.Cost,
		Complexity:  m.Complexity,
	}

	if err := json.Unmarshal(m.Steps, &r.Steps); err != nil {
		return r, fmt.Errorf("decode steps of %s: %w", m.ID, err)
	}
	for _, col := range []struct {
		raw datatypes.JSON
		dst *[]string
	}{
		{m.Mixers, &r.Mixers},
		{m.RequiredIngredients, &r.RequiredIngredients},
		{m.RequiredTools, &r.RequiredTools},
		{m.BaseIngredients, &r.BaseIngredients},
	} {
		if err := json.Unmarshal(col.raw, col.dst); err != nil {
			return r, fmt.Errorf("decode list of %s: %w", m.ID, err)
		}
	}
	return r, nil
}

// marshalList nil 保留為 null，讀回時仍是 nil
func marshalList(list []string) (datatypes.JSON, error) {
	data, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}
