package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/Nonato2008/rapidoEseguro/internal/wire"
)

// getDeliveries lists deliveries, or returns one when idEntrega is given.
func (h *Handler) getDeliveries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if q := r.URL.Query(); q.Has(wire.DeliveryID) {
		v, err := h.deliveries.Get(ctx, q.Get(wire.DeliveryID))
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeView(e, v) })
		return
	}

	list, err := h.deliveries.List(ctx)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for i := range list {
				encodeView(e, &list[i])
			}
		})
	})
}
