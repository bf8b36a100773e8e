package request

import (
	"github.com/google/uuid"
)

type AddItem struct {
	UserId    string    `validate:"omitempty,uuid" json:"userId"`
	GuestId   string    `validate:"omitempty"      json:"guestId"`
	ProductId uuid.UUID `validate:"required"       json:"productId"`
	Size      string    `validate:"required"       json:"size"`
	Color     string    `validate:"required"       json:"color"`
	Quantity  int32     `json:"quantity"`
}

type UpdateItem struct {
	UserId    string    `validate:"omitempty,uuid" json:"userId"`
	GuestId   string    `validate:"omitempty"      json:"guestId"`
	ProductId uuid.UUID `validate:"required"       json:"productId"`
	Size      string    `validate:"required"       json:"size"`
	Color     string    `validate:"required"       json:"color"`
	Quantity  int32     `json:"quantity"`
}

type RemoveItem struct {
	UserId    string    `validate:"omitempty,uuid" json:"userId"`
	GuestId   string    `validate:"omitempty"      json:"guestId"`
	ProductId uuid.UUID `validate:"required"       json:"productId"`
	Size      string    `validate:"required"       json:"size"`
	Color     string    `validate:"required"       json:"color"`
}

type FindCart struct {
	UserId  string `validate:"omitempty,uuid" json:"userId"`
	GuestId string `validate:"omitempty"      json:"guestId"`
}

type MergeCarts struct {
	GuestId string `validate:"required" json:"guestId"`
}
