package httpapi

import "net/http"

type presignResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// handlePresignIcon hands out a presigned PUT URL so the client uploads icon
// bytes straight to object storage.
func (r *Router) handlePresignIcon(w http.ResponseWriter, req *http.Request) {
	key, url, err := r.icons.GetPresignedPutURL(req.Context())
	if err != nil {
		r.logger.Error(req.Context(), "icon presign failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, presignResponse{Key: key, URL: url})
}
