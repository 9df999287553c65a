package api

import (
	"net/http"
	"testing"
)

func TestDispatch(t *testing.T) {
	tests := []struct {
		path     string
		status   int
		articles int
		message  string
	}{
		{path: "/", status: http.StatusOK, articles: 22},
		{path: "/about", status: http.StatusOK, articles: 1},
		{path: "/projects", status: http.StatusOK, articles: 1},
		{path: "/article", status: http.StatusOK, articles: 1},
		{path: "/contact", status: http.StatusNotFound, message: NotFoundMessage},
		{path: "", status: http.StatusNotFound, message: NotFoundMessage},
		{path: "/about/", status: http.StatusNotFound, message: NotFoundMessage},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := Dispatch(tt.path, nil)
			if got.Status != tt.status {
				t.Errorf("Status = %d, want %d", got.Status, tt.status)
			}
			if len(got.Articles) != tt.articles {
				t.Errorf("len(Articles) = %d, want %d", len(got.Articles), tt.articles)
			}
			if got.Message != tt.message {
				t.Errorf("Message = %q, want %q", got.Message, tt.message)
			}
			if got.Route != tt.path {
				t.Errorf("Route = %q, want %q", got.Route, tt.path)
			}
		})
	}
}

func TestDispatch_AboutPlaceholder(t *testing.T) {
	got := Dispatch("/about", nil)
	if got.Articles[0].Name != "About page not implemented yet! Stay tuned." || got.Articles[0].Tag != "None" {
		t.Errorf("About payload = %+v", got.Articles[0])
	}
}
