package accounts

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

func DirectoryHandler(members []Member, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(members); err != nil {
			log.Error("encode directory", zap.Error(err))
		}
	})
}
