package web

import (
	"net/http"
	"time"

	"go-pharmacy/utils"

	"github.com/shopspring/decimal"
)

type orderLineView struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
}

type orderView struct {
	OrderID   string          `json:"orderId"`
	Total     string          `json:"total"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	Items     []orderLineView `json:"items"`
}

func (s *Server) orderHistory(w http.ResponseWriter, r *http.Request) {
	sh, err := s.shopper(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ctx, cancel := s.withTimeout(r)
	defer cancel()
	orders, err := s.orders.Orders(ctx, sh.store.Owner())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		v := orderView{
			OrderID:   o.OrderNumber,
			Total:     decimal.NewFromFloat(o.TotalAmount).StringFixed(2),
			Status:    o.Status,
			CreatedAt: o.CreatedAt,
			Items:     make([]orderLineView, 0, len(o.Items)),
		}
		for _, l := range o.Items {
			v.Items = append(v.Items, orderLineView{
				ProductID: l.ProductID,
				Name:      l.Name,
				Price:     decimal.NewFromFloat(l.Price).StringFixed(2),
				Quantity:  l.Quantity,
			})
		}
		views = append(views, v)
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"orders": views})
}
