package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/utils"
	"gorm.io/gorm"
)

type Supplier struct {
	ID            int       `gorm:"primary_key" json:"id"`
	TenantId      string    `gorm:"size:36;index;not null" json:"tenant_id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	ContactPerson string    `gorm:"size:255" json:"contact_person"`
	Email         string    `gorm:"size:255" json:"email"`
	Phone         string    `gorm:"size:32" json:"phone"`
	Address       string    `gorm:"type:text" json:"address"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSupplier struct {
	Name          string `json:"name" validate:"required,max=255"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
}

func CreateSupplier(ctx context.Context, input *NewSupplier) (*Supplier, error) {
	tenantId, err := utils.RequireTenantId(ctx)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	phone, err := utils.NormalizePhoneNumber(input.Phone, config.PhoneRegion())
	if err != nil {
		return nil, err
	}

	supplier := Supplier{
		TenantId:      tenantId,
		Name:          input.Name,
		ContactPerson: input.ContactPerson,
		Email:         input.Email,
		Phone:         phone,
		Address:       input.Address,
	}
	err = createInTx(ctx, tenantId, func(tx *gorm.DB) error {
		if err := tx.Create(&supplier).Error; err != nil {
			return utils.DatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func GetSupplier(ctx context.Context, id int) (*Supplier, error) {
	return getTenantModel[Supplier](ctx, "supplier", id)
}

func ListSuppliers(ctx context.Context, page Pagination) ([]*Supplier, error) {
	return listTenantModels[Supplier](ctx, page)
}
