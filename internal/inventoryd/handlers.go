package inventoryd

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/probelab/invctl/pkg/inventory"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func idParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func (s *Server) listAssetsHandler(w http.ResponseWriter, r *http.Request) {
	var container *int64
	if v := r.URL.Query().Get("container"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "container must be an integer")
			return
		}
		container = &id
	}

	assets, err := s.store.FindAssets(container, r.URL.Query().Get("name"), r.URL.Query().Get("kind"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assets)
}

func (s *Server) createAssetHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Container int64  `json:"container"`
		Name      string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	id, err := s.store.CreateAsset(req.Container, req.Name)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	asset, err := s.store.GetAsset(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, asset)
}

func (s *Server) getAssetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "assetID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "asset id must be an integer")
		return
	}
	asset, err := s.store.GetAsset(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

// patchAssetHandler sets scalar properties. The body is a flat object of
// property name to new value; only name, kind, description, and mode are
// accepted.
func (s *Server) patchAssetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "assetID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "asset id must be an integer")
		return
	}

	var props map[string]any
	if err := json.NewDecoder(r.Body).Decode(&props); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	for property, value := range props {
		str, ok := value.(string)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("property %q must be a string", property))
			return
		}
		if err := s.store.SetProperty(id, property, str); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeStoreError(w, err)
			} else {
				writeError(w, http.StatusBadRequest, err.Error())
			}
			return
		}
	}

	asset, err := s.store.GetAsset(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

func (s *Server) putCollectorHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "assetID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "asset id must be an integer")
		return
	}
	key := chi.URLParam(r, "key")

	var req struct {
		Config map[string]any `json:"config"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	if err := s.store.PutCollector(id, key, req.Config); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inventory.CollectorState{Key: key, Config: req.Config})
}

func (s *Server) deleteCollectorHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "assetID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "asset id must be an integer")
		return
	}
	if err := s.store.DeleteCollector(id, chi.URLParam(r, "key")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) putAssetLabelHandler(w http.ResponseWriter, r *http.Request) {
	assetID, err := idParam(r, "assetID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "asset id must be an integer")
		return
	}
	labelID, err := idParam(r, "labelID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "label id must be an integer")
		return
	}
	if err := s.store.AddLabel(assetID, labelID); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteAssetLabelHandler(w http.ResponseWriter, r *http.Request) {
	assetID, err := idParam(r, "assetID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "asset id must be an integer")
		return
	}
	labelID, err := idParam(r, "labelID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "label id must be an integer")
		return
	}
	if err := s.store.RemoveLabel(assetID, labelID); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getLabelHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "labelID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "label id must be an integer")
		return
	}
	label, err := s.store.GetLabel(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, label)
}

func (s *Server) putLabelHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "labelID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "label id must be an integer")
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := s.store.PutLabel(id, req.Name); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inventory.Label{ID: id, Name: req.Name})
}

func (s *Server) defaultContainerHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int64{"id": s.defaultContainer})
}
