package repository

import (
	"codequest_backend/internal/model"
	"codequest_backend/internal/quest"
	"codequest_backend/internal/util"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// ProgressUpdate 一次进度上报；Quest 为空时只处理星星和徽章
type ProgressUpdate struct {
	Email string
	Quest quest.Subject
	Value int
	Stars int
	Badge string
}

func progressColumn(s quest.Subject) (string, error) {
	switch s {
	case quest.SubjectC:
		return "progress_c", nil
	case quest.SubjectHTML:
		return "progress_html", nil
	case quest.SubjectPython:
		return "progress_python", nil
	}
	return "", util.ErrInvalidQuest
}

func (r *UserRepository) Create(user *model.User) error {
	err := r.DB.Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrEmailRegistered
	}
	return err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Preload("Badges").Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// SaveProgress 在一个事务里覆盖科目计数、累加星星并追加徽章，不做读改写
func (r *UserRepository) SaveProgress(u ProgressUpdate) (*model.User, bool, error) {
	if u.Value < 0 || u.Stars < 0 {
		return nil, false, util.ErrInvalidProgress
	}

	var column string
	if u.Quest != "" {
		col, err := progressColumn(u.Quest)
		if err != nil {
			return nil, false, err
		}
		column = col
	}

	var (
		saved      model.User
		badgeAdded bool
	)
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Select("id").Where("email = ?", u.Email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrUserNotFound
			}
			return err
		}

		updates := map[string]interface{}{}
		if column != "" {
			updates[column] = u.Value
		}
		if u.Stars > 0 {
			updates["stars"] = gorm.Expr("stars + ?", u.Stars)
		}
		if len(updates) > 0 {
			if err := tx.Model(&model.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
				return fmt.Errorf("update progress: %w", err)
			}
		}

		if u.Badge != "" {
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&model.ProfileBadge{UserID: user.ID, Name: u.Badge})
			if res.Error != nil {
				return fmt.Errorf("add badge: %w", res.Error)
			}
			badgeAdded = res.RowsAffected > 0
		}

		return tx.Preload("Badges").First(&saved, user.ID).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &saved, badgeAdded, nil
}

// TopByQuest 按科目计数降序，同分按 id 升序
func (r *UserRepository) TopByQuest(s quest.Subject, limit int) ([]model.User, error) {
	column, err := progressColumn(s)
	if err != nil {
		return nil, err
	}

	var users []model.User
	err = r.DB.Select("id", "name", column).
		Order(column + " DESC").
		Order("id ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}
