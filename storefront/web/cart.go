package web

import (
	"net/http"

	"go-pharmacy/storefront/cart"
	"go-pharmacy/storefront/checkout"
	"go-pharmacy/utils"

	"github.com/gorilla/mux"
)

type lineView struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"imageUrl"`
	Price     *string `json:"price"`
	Quantity  int     `json:"quantity"`
	Amount    string  `json:"amount"`
	Malformed bool    `json:"malformed,omitempty"`
	JustAdded bool    `json:"justAdded,omitempty"`
}

type cartView struct {
	Items   []lineView       `json:"items"`
	Summary checkout.Display `json:"summary"`
}

func viewCart(store *cart.Store) cartView {
	lines := store.Lines()
	view := cartView{Items: make([]lineView, 0, len(lines)), Summary: checkout.Summarize(lines).Display()}
	for _, l := range lines {
		lv := lineView{
			ProductID: l.ProductID,
			Name:      l.Name,
			ImageURL:  l.ImageURL,
			Quantity:  l.Quantity,
			Amount:    l.Amount().StringFixed(2),
			Malformed: l.Malformed(),
			JustAdded: store.JustAdded(l.ProductID),
		}
		if l.Price.Valid {
			price := l.Price.Decimal.StringFixed(2)
			lv.Price = &price
		}
		view.Items = append(view.Items, lv)
	}
	return view
}

// refresh reloads the cart when a previous change left it stale.
func (s *Server) refresh(r *http.Request, store *cart.Store) error {
	if !store.Stale() {
		return nil
	}
	ctx, cancel := s.withTimeout(r)
	defer cancel()
	return store.Load(ctx)
}

func (s *Server) showCart(w http.ResponseWriter, r *http.Request) {
	sh, err := s.shopper(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.refresh(r, sh.store); err != nil {
		s.fail(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, viewCart(sh.store))
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	sh, err := s.shopper(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var body struct {
		ProductID string `json:"productId"`
	}
	if err := decode(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	if body.ProductID == "" {
		utils.RespondJSON(w, http.StatusBadRequest, map[string]string{"error": "productId is required", "field": "productId"})
		return
	}

	ctx, cancel := s.withTimeout(r)
	defer cancel()
	if err := sh.store.Add(ctx, body.ProductID); err != nil {
		s.fail(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"productId": body.ProductID, "justAdded": true})
}

func (s *Server) setQuantity(w http.ResponseWriter, r *http.Request) {
	sh, err := s.shopper(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := decode(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.refresh(r, sh.store); err != nil {
		s.fail(w, r, err)
		return
	}

	ctx, cancel := s.withTimeout(r)
	defer cancel()
	if err := sh.store.SetQuantity(ctx, mux.Vars(r)["productId"], body.Quantity); err != nil {
		s.fail(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, viewCart(sh.store))
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	sh, err := s.shopper(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ctx, cancel := s.withTimeout(r)
	defer cancel()
	if err := sh.store.Remove(ctx, mux.Vars(r)["productId"]); err != nil {
		s.fail(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, viewCart(sh.store))
}

type checkoutView struct {
	State   string           `json:"state"`
	Summary checkout.Display `json:"summary"`
}

func (s *Server) startCheckout(w http.ResponseWriter, r *http.Request) {
	sh, err := s.shopper(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.refresh(r, sh.store); err != nil {
		s.fail(w, r, err)
		return
	}
	flow, err := s.shoppers.restartCheckout(sh)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, checkoutView{State: flow.State().String(), Summary: flow.Summary().Display()})
}

func (s *Server) showCheckout(w http.ResponseWriter, r *http.Request) {
	sh, err := s.shopper(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	flow := s.shoppers.checkout(sh)
	if flow.State() == checkout.Idle {
		if err := s.refresh(r, sh.store); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	utils.RespondJSON(w, http.StatusOK, checkoutView{State: flow.State().String(), Summary: flow.Summary().Display()})
}

func (s *Server) pay(w http.ResponseWriter, r *http.Request) {
	sh, err := s.shopper(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	flow := s.shoppers.checkout(sh)

	// The amount charged must cover what the server will turn into the order.
	if flow.State() == checkout.Idle {
		if err := s.refresh(r, sh.store); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	ctx, cancel := s.withTimeout(r)
	defer cancel()
	conf, err := flow.Pay(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	// The order now holds the cart's contents; the server emptied it.
	sh.store.Invalidate()
	sh.confirm(conf)
	http.Redirect(w, r, "/order-confirmation", http.StatusSeeOther)
}

func (s *Server) orderConfirmation(w http.ResponseWriter, r *http.Request) {
	sh, err := s.shopper(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	conf, ok := sh.lastConfirmation()
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"orderId": conf.OrderID,
		"amount":  conf.Amount.StringFixed(2),
	})
}
