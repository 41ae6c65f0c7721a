// Package users is the staff directory shown on the user management page.
// Entries are plain records; they are not login accounts.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stockmaster/internal/apperr"
	"stockmaster/internal/models"
	"stockmaster/internal/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Input is the add/edit form. Blank role and status fall back to Staff and Active.
type Input struct {
	Name   string            `json:"name" validate:"required,max=120"`
	Email  string            `json:"email" validate:"required,email,max=200"`
	Role   models.Role       `json:"role" validate:"omitempty,oneof=Admin Manager Staff"`
	Status models.UserStatus `json:"status" validate:"omitempty,oneof=Active Inactive"`
}

func (in *Input) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return err
	}
	if in.Role == "" {
		in.Role = models.RoleStaff
	}
	if in.Status == "" {
		in.Status = models.StatusActive
	}
	return nil
}

type Directory struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db, now: time.Now}
}

func (d *Directory) Create(ctx context.Context, in Input) (*models.User, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	u := &models.User{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Role:      in.Role,
		Status:    in.Status,
		CreatedAt: d.now(),
	}
	if err := d.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (d *Directory) Get(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := d.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user", id)
		}
		return nil, fmt.Errorf("load user %s: %w", id, err)
	}
	return &u, nil
}

func (d *Directory) Update(ctx context.Context, id string, in Input) (*models.User, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	u, err := d.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Name, u.Email, u.Role, u.Status = in.Name, in.Email, in.Role, in.Status
	if err := d.db.WithContext(ctx).Save(u).Error; err != nil {
		return nil, fmt.Errorf("save user %s: %w", id, err)
	}
	return u, nil
}

func (d *Directory) Delete(ctx context.Context, id string) error {
	res := d.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete user %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user", id)
	}
	return nil
}

// List returns users oldest first, optionally filtered by name or email.
func (d *Directory) List(ctx context.Context, query string) ([]models.User, error) {
	q := d.db.WithContext(ctx).Model(&models.User{})
	if query = strings.TrimSpace(query); query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(email) LIKE ?)", like, like)
	}

	list := []models.User{}
	if err := q.Order("created_at").Order("name").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return list, nil
}
