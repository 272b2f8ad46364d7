package models

import (
	"github.com/humbertomar/vipo-backend/config"
	"github.com/humbertomar/vipo-backend/utils"
)

func MigrateTable() {
	db := config.GetDB()
	err := db.AutoMigrate(
		&User{},
		&ProductCategory{},
		&Product{},
		&ProductVariant{},
		&Customer{},
		&Address{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&Payment{},
	)
	utils.ErrorPanic(err)
}
