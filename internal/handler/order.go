package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/Nonato2008/rapidoEseguro/internal/wire"
)

// getOrders lists orders with their deliveries, or returns one when idPedido
// is given.
func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if q := r.URL.Query(); q.Has(wire.OrderID) {
		rec, err := h.orders.Get(ctx, q.Get(wire.OrderID))
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeRecord(e, rec) })
		return
	}

	list, err := h.orders.List(ctx)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for i := range list {
				encodeRecord(e, &list[i])
			}
		})
	})
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	f, err := readFields(w, r)
	if err != nil {
		fail(w, r, err)
		return
	}
	rec, err := h.orders.Create(r.Context(), f.OrderCreate())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) { encodeRecord(e, rec) })
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	f, err := readFields(w, r)
	if err != nil {
		fail(w, r, err)
		return
	}
	rec, err := h.orders.Update(r.Context(), r.PathValue(wire.OrderID), f.OrderUpdate())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeRecord(e, rec) })
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Delete(r.Context(), r.PathValue(wire.OrderID)); err != nil {
		fail(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "order and delivery deleted")
}
