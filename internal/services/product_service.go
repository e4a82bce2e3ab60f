package services

import (
	"storeapi/internal/models"
	"storeapi/internal/repositories"
)

// ProductInput is the payload for creating or partially updating a product.
// Pointer fields distinguish "absent" from "zero": on create the handler
// requires all of them, on update only the present ones are applied.
type ProductInput struct {
	Name        *string  `json:"name" validate:"required"`
	Description *string  `json:"description" validate:"required"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Stock       *int     `json:"stock" validate:"required,gte=0"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// ListProducts returns one page of the catalog plus listing metadata.
func (s *ProductService) ListProducts(page, perPage int) ([]models.Product, PageInfo, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, PageInfo{}, err
	}
	pageItems, info := paginate(products, page, perPage)
	return pageItems, info, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id int) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product from a fully populated input. The
// repository allocates the ID.
func (s *ProductService) CreateProduct(input ProductInput) (*models.Product, error) {
	product := &models.Product{
		Name:        *input.Name,
		Description: *input.Description,
		Price:       *input.Price,
		Stock:       *input.Stock,
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct applies the fields present in the input to an existing
// product; absent fields keep their prior values.
func (s *ProductService) UpdateProduct(id int, input ProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id int) error {
	return s.repo.Delete(id)
}
