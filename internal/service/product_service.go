package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"go-materials-ledger/internal/model"
	"go-materials-ledger/internal/repository"
	"go-materials-ledger/internal/ws"
	"go-materials-ledger/pkg/validator"

	"github.com/google/uuid"
)

var ErrSKUExists = errors.New("SKU already exists")

type ProductService interface {
	CreateProduct(req *model.Product, userID, userName string) error
	UpdateProduct(id uuid.UUID, req *model.Product, userID, userName string) (*model.Product, error)
	GetAllProducts() ([]model.Product, error)
	GetProductByID(id uuid.UUID) (*model.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
	wsHub       *ws.Hub
}

func NewProductService(pRepo repository.ProductRepository, hub *ws.Hub) ProductService {
	return &productService{productRepo: pRepo, wsHub: hub}
}

func (s *productService) CreateProduct(req *model.Product, userID, userName string) error {
	// 1. Validasi struct dasar
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Cek duplikasi SKU
	existing, _ := s.productRepo.FindBySKU(req.SKU)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrSKUExists
	}

	// 3. Stok awal selalu 0: saldo stok hanya boleh lahir dari movement,
	// jadi stok pembukaan diposting sebagai stock in setelah create.
	req.Stock = 0

	req.CreatedBy = userID
	req.UpdatedBy = userID
	req.CreatedByUserID = &userID
	req.UpdatedByUserID = &userID

	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	s.broadcastProduct("product_created", req, userName)
	return nil
}

// UpdateProduct mengubah data katalog. Stock sengaja TIDAK ikut di-update
// di sini; mutasi stok hanya lewat StockService.
func (s *productService) UpdateProduct(id uuid.UUID, req *model.Product, userID, userName string) (*model.Product, error) {
	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	existing.Name = req.Name
	existing.SKU = req.SKU
	existing.Unit = req.Unit
	existing.ReorderLevel = req.ReorderLevel
	existing.Price = req.Price
	existing.WholesalePrice = req.WholesalePrice
	existing.ContractorPrice = req.ContractorPrice
	existing.UpdatedBy = userID
	existing.UpdatedByUserID = &userID

	if err := s.productRepo.Update(existing); err != nil {
		return nil, err
	}

	s.broadcastProduct("product_updated", existing, userName)
	return existing, nil
}

func (s *productService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *productService) GetProductByID(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *productService) broadcastProduct(action string, product *model.Product, userName string) {
	if s.wsHub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type":   "catalog_update",
			"action": action,
			"product": map[string]interface{}{
				"id":            product.ID,
				"sku":           product.SKU,
				"name":          product.Name,
				"stock":         product.Stock,
				"reorder_level": product.ReorderLevel,
				"price":         product.Price,
			},
			"message": fmt.Sprintf("%s %s '%s'", userName, action, product.Name),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}
