package dto

type ConvertQuery struct {
	From   string `form:"from" json:"from" validate:"required,currency-code"`
	To     string `form:"to" json:"to" validate:"required,currency-code"`
	Amount string `form:"amount" json:"amount" validate:"required,numeric"`
}
