package models

type UnitOfMeasure string

const (
	UnitOfMeasureUnit  UnitOfMeasure = "UNIT"
	UnitOfMeasureSqFt  UnitOfMeasure = "SQ_FT"
	UnitOfMeasureKg    UnitOfMeasure = "KG"
	UnitOfMeasurePiece UnitOfMeasure = "PIECE"
	UnitOfMeasureMeter UnitOfMeasure = "METER"
	UnitOfMeasureLiter UnitOfMeasure = "LITER"
)

func (u UnitOfMeasure) IsValid() bool {
	switch u {
	case UnitOfMeasureUnit, UnitOfMeasureSqFt, UnitOfMeasureKg,
		UnitOfMeasurePiece, UnitOfMeasureMeter, UnitOfMeasureLiter:
		return true
	}
	return false
}

type MovementKind string

const (
	MovementKindPurchase      MovementKind = "Purchase"
	MovementKindSale          MovementKind = "Sale"
	MovementKindAdjustment    MovementKind = "Adjustment"
	MovementKindProductionIn  MovementKind = "ProductionIn"
	MovementKindProductionOut MovementKind = "ProductionOut"
)

func (k MovementKind) IsValid() bool {
	switch k {
	case MovementKindPurchase, MovementKindSale, MovementKindAdjustment,
		MovementKindProductionIn, MovementKindProductionOut:
		return true
	}
	return false
}

// consumes reports whether the movement takes stock out.
func (k MovementKind) consumes() bool {
	return k == MovementKindSale || k == MovementKindProductionOut
}

type ReferenceType string

const (
	ReferenceTypePurchaseOrder ReferenceType = "PURCHASE_ORDER"
	ReferenceTypeSalesOrder    ReferenceType = "SALES_ORDER"
	ReferenceTypeWorkOrder     ReferenceType = "WORK_ORDER"
	ReferenceTypeAdjustment    ReferenceType = "ADJUSTMENT"
	ReferenceTypeInvoice       ReferenceType = "INVOICE"
	ReferenceTypeBill          ReferenceType = "BILL"
)

type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "Draft"
	PurchaseOrderStatusOrdered   PurchaseOrderStatus = "Ordered"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "Received"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "Cancelled"
)

type SalesOrderStatus string

const (
	SalesOrderStatusDraft     SalesOrderStatus = "Draft"
	SalesOrderStatusConfirmed SalesOrderStatus = "Confirmed"
	SalesOrderStatusShipped   SalesOrderStatus = "Shipped"
	SalesOrderStatusCancelled SalesOrderStatus = "Cancelled"
)

type WorkOrderStatus string

const (
	WorkOrderStatusPlanned    WorkOrderStatus = "Planned"
	WorkOrderStatusInProgress WorkOrderStatus = "InProgress"
	WorkOrderStatusCompleted  WorkOrderStatus = "Completed"
	WorkOrderStatusCancelled  WorkOrderStatus = "Cancelled"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "Draft"
	InvoiceStatusSent          InvoiceStatus = "Sent"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PartiallyPaid"
	InvoiceStatusPaid          InvoiceStatus = "Paid"
	InvoiceStatusOverdue       InvoiceStatus = "Overdue"
	InvoiceStatusCancelled     InvoiceStatus = "Cancelled"
)

type BillStatus string

const (
	BillStatusOpen          BillStatus = "Open"
	BillStatusPartiallyPaid BillStatus = "PartiallyPaid"
	BillStatusPaid          BillStatus = "Paid"
	BillStatusCancelled     BillStatus = "Cancelled"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCreditCard, PaymentMethodOther:
		return true
	}
	return false
}

type PayType string

const (
	PayTypeHourly PayType = "HOURLY"
	PayTypeSalary PayType = "SALARY"
)

type EmployeeStatus string

const (
	EmployeeStatusActive     EmployeeStatus = "ACTIVE"
	EmployeeStatusInactive   EmployeeStatus = "INACTIVE"
	EmployeeStatusTerminated EmployeeStatus = "TERMINATED"
)

type AccountType string

const (
	AccountTypeBank                  AccountType = "BANK"
	AccountTypeAccountsReceivable    AccountType = "ACCOUNTS_RECEIVABLE"
	AccountTypeOtherCurrentAsset     AccountType = "OTHER_CURRENT_ASSET"
	AccountTypeFixedAsset            AccountType = "FIXED_ASSET"
	AccountTypeOtherAsset            AccountType = "OTHER_ASSET"
	AccountTypeAccountsPayable       AccountType = "ACCOUNTS_PAYABLE"
	AccountTypeCreditCard            AccountType = "CREDIT_CARD"
	AccountTypeOtherCurrentLiability AccountType = "OTHER_CURRENT_LIABILITY"
	AccountTypeLongTermLiability     AccountType = "LONG_TERM_LIABILITY"
	AccountTypeEquity                AccountType = "EQUITY"
	AccountTypeIncome                AccountType = "INCOME"
	AccountTypeOtherIncome           AccountType = "OTHER_INCOME"
	AccountTypeCostOfGoodsSold       AccountType = "COST_OF_GOODS_SOLD"
	AccountTypeExpense               AccountType = "EXPENSE"
	AccountTypeOtherExpense          AccountType = "OTHER_EXPENSE"
)

func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeBank, AccountTypeAccountsReceivable, AccountTypeOtherCurrentAsset,
		AccountTypeFixedAsset, AccountTypeOtherAsset, AccountTypeAccountsPayable,
		AccountTypeCreditCard, AccountTypeOtherCurrentLiability, AccountTypeLongTermLiability,
		AccountTypeEquity, AccountTypeIncome, AccountTypeOtherIncome,
		AccountTypeCostOfGoodsSold, AccountTypeExpense, AccountTypeOtherExpense:
		return true
	}
	return false
}

// IsDebitNormal reports whether balances of this type grow with debits.
// Assets, cost of goods sold and expenses are debit-normal; the rest credit-normal.
func (t AccountType) IsDebitNormal() bool {
	switch t {
	case AccountTypeBank, AccountTypeAccountsReceivable, AccountTypeOtherCurrentAsset,
		AccountTypeFixedAsset, AccountTypeOtherAsset,
		AccountTypeCostOfGoodsSold, AccountTypeExpense, AccountTypeOtherExpense:
		return true
	}
	return false
}

func (t AccountType) IsAsset() bool {
	switch t {
	case AccountTypeBank, AccountTypeAccountsReceivable, AccountTypeOtherCurrentAsset,
		AccountTypeFixedAsset, AccountTypeOtherAsset:
		return true
	}
	return false
}

func (t AccountType) IsLiability() bool {
	switch t {
	case AccountTypeAccountsPayable, AccountTypeCreditCard,
		AccountTypeOtherCurrentLiability, AccountTypeLongTermLiability:
		return true
	}
	return false
}
