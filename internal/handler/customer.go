package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/Nonato2008/rapidoEseguro/internal/wire"
)

// getCustomers lists customers, or returns one when idCliente is given.
func (h *Handler) getCustomers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if q := r.URL.Query(); q.Has(wire.CustomerID) {
		c, err := h.customers.Get(ctx, q.Get(wire.CustomerID))
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeCustomer(e, c) })
		return
	}

	list, err := h.customers.List(ctx)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for i := range list {
				encodeCustomer(e, &list[i])
			}
		})
	})
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	f, err := readFields(w, r)
	if err != nil {
		fail(w, r, err)
		return
	}
	c, err := h.customers.Create(r.Context(), f.CustomerCreate())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) { encodeCustomer(e, c) })
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	f, err := readFields(w, r)
	if err != nil {
		fail(w, r, err)
		return
	}
	c, err := h.customers.Update(r.Context(), r.PathValue(wire.CustomerID), f.CustomerUpdate())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeCustomer(e, c) })
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.customers.Delete(r.Context(), r.PathValue(wire.CustomerID)); err != nil {
		fail(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "customer deleted")
}
