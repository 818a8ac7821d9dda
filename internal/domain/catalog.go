package domain

import "errors"

// ErrServiceNotFound indicates that no service has the requested code.
var ErrServiceNotFound = errors.New("Service ataus Layanan tidak ditemukan")

// Service is a payable catalog item.
type Service struct {
	Code   string `json:"service_code"`
	Name   string `json:"service_name"`
	Icon   string `json:"service_icon"`
	Tariff int64  `json:"service_tariff"`
}

// Banner is a promotional item shown to every visitor.
type Banner struct {
	Name        string `json:"banner_name"`
	Image       string `json:"banner_image"`
	Description string `json:"description"`
}
