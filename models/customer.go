package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/utils"
	"gorm.io/gorm"
)

type Customer struct {
	ID        int       `gorm:"primary_key" json:"id"`
	TenantId  string    `gorm:"size:36;index;not null" json:"tenant_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255" json:"email"`
	Phone     string    `gorm:"size:32" json:"phone"`
	Address   string    `gorm:"type:text" json:"address"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCustomer struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func CreateCustomer(ctx context.Context, input *NewCustomer) (*Customer, error) {
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

	customer := Customer{
		TenantId: tenantId,
		Name:     input.Name,
		Email:    input.Email,
		Phone:    phone,
		Address:  input.Address,
	}
	err = createInTx(ctx, tenantId, func(tx *gorm.DB) error {
		if err := tx.Create(&customer).Error; err != nil {
			return utils.DatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func GetCustomer(ctx context.Context, id int) (*Customer, error) {
	return getTenantModel[Customer](ctx, "customer", id)
}

func ListCustomers(ctx context.Context, page Pagination) ([]*Customer, error) {
	return listTenantModels[Customer](ctx, page)
}
