package models

import (
	"log"

	"gorm.io/gorm"
)

// AllModels lists every table of the service in creation order.
func AllModels() []interface{} {
	return []interface{}{
		&Product{}, &StockLedgerEntry{},
		&Supplier{}, &Customer{}, &Employee{},
		&Recipe{}, &RecipeIngredient{}, &WorkOrder{},
		&PurchaseOrder{}, &PurchaseOrderLine{},
		&SalesOrder{}, &SalesOrderLine{},
		&Invoice{}, &Payment{},
		&Bill{}, &BillPayment{},
		&Account{}, &JournalEntry{}, &JournalEntryLine{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

func MigrateTable(db *gorm.DB) {
	if err := Migrate(db); err != nil {
		log.Fatal(err)
	}
}
