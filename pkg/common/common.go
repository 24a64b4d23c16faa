package common

import (
	"encoding/json"
	"io"
	"net/http"
)

func ParseReqBody(reqBody io.ReadCloser, v interface{}) error {
	defer reqBody.Close()
	return json.NewDecoder(reqBody).Decode(v)
}

func WriteRespJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"message":"can't encode response"}`, http.StatusInternalServerError)
	}
}

func WriteMsg(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(struct {
		Message string `json:"message"`
	}{Message: msg})
}
