package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gaspardpetit/spahost/core/logx"
)

// HelloText is the greeting returned by the demonstration endpoint.
const HelloText = "Hello, World!"

// Message is the JSON body of the demonstration endpoint.
type Message struct {
	Message string `json:"message"`
}

var helloBody []byte

func init() {
	b, err := json.Marshal(Message{Message: HelloText})
	if err != nil {
		panic(fmt.Sprintf("marshal hello message: %v", err))
	}
	helloBody = b
}

// Hello writes {"message":"Hello, World!"}.
func Hello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(helloBody); err != nil {
		logx.Log.Error().Err(err).Msg("write hello")
	}
}
