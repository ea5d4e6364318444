package repository

import (
	"errors"
	"fmt"

	"codequest_backend/internal/model"
	"codequest_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// WithTx 返回绑定到事务的仓库
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{DB: tx}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByExternalID(externalID string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("external_id = ?", externalID).First(&user).Error
	if err != nil {
		return nil, notFound(err, "user %q", externalID)
	}
	return &user, nil
}

// FindByExternalIDForUpdate 在事务中锁定用户行，同一用户的写操作因此串行
func (r *UserRepository) FindByExternalIDForUpdate(externalID string) (*model.User, error) {
	var user model.User
	err := r.DB.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("external_id = ?", externalID).First(&user).Error
	if err != nil {
		return nil, notFound(err, "user %q", externalID)
	}
	return &user, nil
}

// SaveProgress 只写回成长相关字段
func (r *UserRepository) SaveProgress(user *model.User) error {
	return r.DB.Model(user).Select(
		"xp", "gold", "level", "streak", "best_streak", "hearts",
		"focus_points", "focus_refreshed_at", "last_checkin_at", "updated_at",
	).Updates(user).Error
}

// notFound 把 gorm 的记录不存在转换为业务错误
func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", util.ErrNotFound, fmt.Sprintf(format, args...))
	}
	return err
}
