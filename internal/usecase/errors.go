package usecase

import "errors"

var (
	// ErrNotAdmin foydalanuvchi admin emas yoki token ruxsat bermaydi
	ErrNotAdmin = errors.New("user is not admin")
	// ErrProductNotFound katalogda mahsulot yo'q
	ErrProductNotFound = errors.New("product not found in catalog")
	// ErrNoCatalog katalog hali yuklanmagan
	ErrNoCatalog = errors.New("no catalog loaded")
)
