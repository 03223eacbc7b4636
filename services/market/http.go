package market

import "net/http"

// FileServer serves the persisted JSON documents. The front-end
// cache-busts with a query parameter and expects no-store semantics, so
// intermediaries are told not to cache either.
func FileServer(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		files.ServeHTTP(w, r)
	})
}
