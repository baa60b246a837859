package service

import (
	"errors"

	"go-materials-ledger/internal/model"
	"go-materials-ledger/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidPriceLevelType = errors.New("invalid price level type")

// PricingService meresolusi harga satuan untuk (product, segmen customer,
// kuantitas). Murni lookup, tanpa side effect; "harga tidak ketemu" selalu
// jatuh ke harga dasar, tidak pernah jadi error.
type PricingService interface {
	PriceFor(productID uuid.UUID, customerType model.PriceLevelType, quantity int) (decimal.Decimal, error)
	DiscountPercent(productID uuid.UUID, levelPrice decimal.Decimal) (float64, error)
}

type pricingService struct {
	productRepo    repository.ProductRepository
	priceLevelRepo repository.PriceLevelRepository
}

func NewPricingService(pRepo repository.ProductRepository, plRepo repository.PriceLevelRepository) PricingService {
	return &pricingService{
		productRepo:    pRepo,
		priceLevelRepo: plRepo,
	}
}

// PriceFor mencari breakpoint aktif tertinggi yang tercapai kuantitas
// (min_quantity DESC, first match wins). Tanpa breakpoint yang cocok, jatuh ke
// harga field product sesuai segmen, lalu harga dasar. Urutan fallback ini
// aturan bisnis: harga yang lebih spesifik selalu menang atas yang generik.
func (s *pricingService) PriceFor(productID uuid.UUID, customerType model.PriceLevelType, quantity int) (decimal.Decimal, error) {
	if !customerType.IsValid() {
		return decimal.Zero, ErrInvalidPriceLevelType
	}

	levels, err := s.priceLevelRepo.FindMatching(productID, customerType, quantity)
	if err != nil {
		return decimal.Zero, err
	}
	if len(levels) > 0 {
		return levels[0].Price, nil
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		return decimal.Zero, ErrProductNotFound
	}

	for _, price := range fallbackChain(product, customerType) {
		if price != nil && price.IsPositive() {
			return *price, nil
		}
	}
	return product.Price, nil
}

// fallbackChain menyusun kandidat harga per segmen: field khusus segmen dulu,
// baru harga generik terdekat. Retail langsung ke harga dasar.
func fallbackChain(product *model.Product, customerType model.PriceLevelType) []*decimal.Decimal {
	switch customerType {
	case model.PriceLevelWholesale:
		return []*decimal.Decimal{product.WholesalePrice}
	case model.PriceLevelContractor:
		return []*decimal.Decimal{product.ContractorPrice, product.WholesalePrice}
	case model.PriceLevelDistributor:
		return []*decimal.Decimal{product.WholesalePrice, product.ContractorPrice}
	}
	return nil
}

// DiscountPercent menghitung diskon level price terhadap harga retail.
// Return 0 kalau harga retail tidak ada atau <= 0; tidak pernah divide by zero.
func (s *pricingService) DiscountPercent(productID uuid.UUID, levelPrice decimal.Decimal) (float64, error) {
	retailPrice, err := s.PriceFor(productID, model.PriceLevelRetail, 1)
	if err != nil {
		return 0, err
	}
	if !retailPrice.IsPositive() {
		return 0, nil
	}

	discount, _ := retailPrice.Sub(levelPrice).
		Div(retailPrice).
		Mul(decimal.NewFromInt(100)).
		Float64()
	return discount, nil
}
