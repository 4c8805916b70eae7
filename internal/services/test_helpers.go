package services

import (
	"time"

	"storefront-service/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	TestUserID    = "user-1"
	TestOtherUser = "user-2"
	TestAdminID   = "admin-1"
	TestOrderID   = uint64(1)
)

var (
	TestCustomer = domain.Identity{UserID: TestUserID, Role: domain.RoleCustomer}
	TestStranger = domain.Identity{UserID: TestOtherUser, Role: domain.RoleCustomer}
	TestAdmin    = domain.Identity{UserID: TestAdminID, Role: domain.RoleAdmin}
	TestNow      = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
)

func CreateMockProduct(id uint64, name, price string, stock int) *domain.Product {
	return &domain.Product{
		ID:       id,
		Name:     name,
		SKU:      name + "-SKU",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
}

func CreateMockCartItem(id string, p *domain.Product, quantity int) domain.CartItem {
	return domain.CartItem{
		ID:            id,
		ProductID:     p.ID,
		Quantity:      quantity,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		AddedAt:       TestNow,
	}
}

func CreateMockCart(userID string, items ...domain.CartItem) *domain.Cart {
	c := domain.NewCart(userID)
	c.ID = 1
	c.Version = 1
	c.Items = append(c.Items, items...)
	return c
}

func CreateMockOrder(id uint64, status domain.OrderStatus, method domain.PaymentMethod, items ...domain.OrderItem) *domain.Order {
	o := &domain.Order{
		ID:            id,
		OrderNumber:   domain.FormatOrderNumber(domain.OrderDay(TestNow), int64(id)),
		UserID:        TestUserID,
		Items:         items,
		PaymentMethod: method,
		Status:        status,
		Currency:      "USD",
		Version:       1,
		CreatedAt:     TestNow,
	}
	o.StockReserved = status == domain.StatusConfirmed || status == domain.StatusProcessing ||
		status == domain.StatusShipped || status == domain.StatusDelivered
	return o
}

func CreateMockOrderItem(p *domain.Product, quantity int) domain.OrderItem {
	return domain.OrderItem{
		ProductID: p.ID,
		Name:      p.Name,
		SKU:       p.SKU,
		Quantity:  quantity,
		Price:     p.Price,
	}
}
