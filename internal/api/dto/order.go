package dto

import (
	"github.com/Ontinet-com/contract/internal/domain/order"
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/shopspring/decimal"
)

type OrderLineResponse struct {
	*order.OrderLine
	PriceSubtotal decimal.Decimal `json:"price_subtotal"`
}

type OrderResponse struct {
	*order.Order
	AmountUntaxed decimal.Decimal      `json:"amount_untaxed"`
	Lines         []*OrderLineResponse `json:"lines"`
}

func NewOrderResponse(o *order.Order) *OrderResponse {
	resp := &OrderResponse{
		Order:         o,
		AmountUntaxed: o.AmountUntaxed(),
		Lines:         make([]*OrderLineResponse, 0, len(o.Lines)),
	}
	for _, line := range o.Lines {
		resp.Lines = append(resp.Lines, &OrderLineResponse{
			OrderLine:     line,
			PriceSubtotal: line.PriceSubtotal(),
		})
	}
	return resp
}

// ListOrdersResponse represents the response for listing orders
type ListOrdersResponse = types.ListResponse[*OrderResponse]
