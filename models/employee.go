package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Employee struct {
	ID         int             `gorm:"primary_key" json:"id"`
	TenantId   string          `gorm:"size:36;index;not null" json:"tenant_id"`
	FirstName  string          `gorm:"size:100;not null" json:"first_name"`
	LastName   string          `gorm:"size:100;not null" json:"last_name"`
	Email      string          `gorm:"size:255" json:"email"`
	Phone      string          `gorm:"size:32" json:"phone"`
	Position   string          `gorm:"size:100" json:"position"`
	Department string          `gorm:"size:100" json:"department"`
	HireDate   time.Time       `gorm:"not null" json:"hire_date"`
	PayType    PayType         `gorm:"size:16;not null" json:"pay_type"`
	PayRate    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"pay_rate"`
	Status     EmployeeStatus  `gorm:"size:16;not null" json:"status"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewEmployee struct {
	FirstName  string          `json:"first_name" validate:"required,max=100"`
	LastName   string          `json:"last_name" validate:"required,max=100"`
	Email      string          `json:"email" validate:"omitempty,email"`
	Phone      string          `json:"phone"`
	Position   string          `json:"position"`
	Department string          `json:"department"`
	HireDate   *time.Time      `json:"hire_date"`
	PayType    PayType         `json:"pay_type" validate:"required,oneof=HOURLY SALARY"`
	PayRate    decimal.Decimal `json:"pay_rate"`
}

func CreateEmployee(ctx context.Context, input *NewEmployee) (*Employee, error) {
	tenantId, err := utils.RequireTenantId(ctx)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	if input.PayRate.IsNegative() {
		return nil, utils.ValidationError("pay rate must not be negative")
	}
	phone, err := utils.NormalizePhoneNumber(input.Phone, config.PhoneRegion())
	if err != nil {
		return nil, err
	}
	hireDate := utils.DateOnly(time.Now())
	if input.HireDate != nil {
		hireDate = utils.DateOnly(*input.HireDate)
	}

	employee := Employee{
		TenantId:   tenantId,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Email:      input.Email,
		Phone:      phone,
		Position:   input.Position,
		Department: input.Department,
		HireDate:   hireDate,
		PayType:    input.PayType,
		PayRate:    input.PayRate,
		Status:     EmployeeStatusActive,
	}
	err = createInTx(ctx, tenantId, func(tx *gorm.DB) error {
		if err := tx.Create(&employee).Error; err != nil {
			return utils.DatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func GetEmployee(ctx context.Context, id int) (*Employee, error) {
	return getTenantModel[Employee](ctx, "employee", id)
}

func ListEmployees(ctx context.Context, page Pagination) ([]*Employee, error) {
	return listTenantModels[Employee](ctx, page)
}
