package api

import (
	"encoding/json"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/fnlux/internal/tally"
	"github.com/dmitrymomot/fnlux/pkg/logger"
)

// signals is the datastar signal payload for one state.
type signals struct {
	State tally.State `json:"state"`
	Depth int         `json:"depth"`
}

// stream sends the current state, then one signal patch per published state
// until the client goes away or the broadcaster closes.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	sub := h.events.Subscribe(r.Context())
	defer sub.Close()

	sse := datastar.NewSSE(w, r)
	if err := h.patch(sse, h.store.State()); err != nil {
		h.log.DebugContext(r.Context(), "event stream closed", logger.Error(err))
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case state, ok := <-sub.Receive():
			if !ok {
				return
			}
			if err := h.patch(sse, state); err != nil {
				h.log.DebugContext(r.Context(), "event stream closed", logger.Error(err))
				return
			}
		}
	}
}

func (h *Handler) patch(sse *datastar.ServerSentEventGenerator, state tally.State) error {
	data, err := json.Marshal(signals{State: state, Depth: h.store.Depth()})
	if err != nil {
		return err
	}
	return sse.PatchSignals(data)
}
