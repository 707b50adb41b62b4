// Recruitment Backend Stub
//
// A minimal stand-in for the recruitment backend, for developing the
// admin gateway without the real service.
//
// Usage:
//   go run main.go
//
// Then point the gateway at it:
//   export API_URL="http://localhost:8000"
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
)

type uploadResult struct {
	File    string   `json:"file"`
	Message string   `json:"message"`
	Email   string   `json:"email,omitempty"`
	Logs    []string `json:"logs"`
}

type jobOffer struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
}

var (
	mu     sync.Mutex
	offers = map[string]jobOffer{}
	nextID = 1
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/cv/admin_upload", handleUpload)
	mux.HandleFunc("/api/job/admin_offers", handleListOffers)
	mux.HandleFunc("/api/job/create-admin", handleCreateOffer)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		log.Printf("unhandled %s %s", r.Method, r.URL.Path)
		http.Error(w, `{"error":"not implemented in stub"}`, http.StatusNotFound)
	})

	log.Printf("backend stub listening on :%s", port)
	log.Fatal(http.ListenAndServe(":"+port, requireBearer(mux)))
}

// requireBearer rejects requests without an Authorization header, the
// same way the real backend does, so auth handling can be exercised.
func requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message":"missing credentials"}`)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, `{"message":"bad multipart body"}`, http.StatusBadRequest)
		return
	}

	var results []uploadResult
	for _, fh := range r.MultipartForm.File["files"] {
		results = append(results, uploadResult{
			File:    fh.Filename,
			Message: "parsed",
			Email:   "candidate@example.com",
			Logs:    []string{fmt.Sprintf("received %d bytes", fh.Size)},
		})
		log.Printf("upload: %s (%d bytes)", fh.Filename, fh.Size)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"results": results})
}

func handleListOffers(w http.ResponseWriter, r *http.Request) {
	mu.Lock()
	defer mu.Unlock()

	list := make([]jobOffer, 0, len(offers))
	for _, o := range offers {
		list = append(list, o)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func handleCreateOffer(w http.ResponseWriter, r *http.Request) {
	var offer jobOffer
	if err := json.NewDecoder(r.Body).Decode(&offer); err != nil || offer.Title == "" {
		http.Error(w, `{"message":"title is required"}`, http.StatusUnprocessableEntity)
		return
	}

	mu.Lock()
	offer.ID = fmt.Sprintf("job-%d", nextID)
	nextID++
	offers[offer.ID] = offer
	mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(offer)
}
