package web

import (
	"net/http"

	"go-pharmacy/models"
	"go-pharmacy/session"
	"go-pharmacy/storefront/catalog"
	"go-pharmacy/utils"
)

type productView struct {
	models.Product
	JustAdded bool `json:"justAdded,omitempty"`
}

func (s *Server) products(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.withTimeout(r)
	defer cancel()

	products, err := s.catalog.List(ctx, r.URL.Query().Get("q"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var sh *shopper
	if sess, ok := session.FromContext(r.Context()); ok {
		sh = s.shoppers.get(sess.UserID)
	}
	views := make([]productView, 0, len(products))
	for _, p := range products {
		v := productView{Product: p}
		if sh != nil {
			v.JustAdded = sh.store.JustAdded(p.ID.Hex())
		}
		views = append(views, v)
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"products": views})
}

func (s *Server) categories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.withTimeout(r)
	defer cancel()

	groups, err := s.catalog.Categories(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"categories": groups})
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Redirect(w, r, s.signInURL, http.StatusSeeOther)
		return
	}
	if !sess.IsAdmin() {
		utils.RespondError(w, http.StatusForbidden, "Forbidden: Admins only")
		return
	}

	var form catalog.ProductForm
	if err := decode(r, &form); err != nil {
		s.fail(w, r, err)
		return
	}

	ctx, cancel := s.withTimeout(r)
	defer cancel()
	created, err := s.catalog.CreateProduct(ctx, form)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, created)
}
