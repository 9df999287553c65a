package api

import (
	"net/http"
	"net/url"

	"github.com/WangYihang/web-crawler/pkg/infrastructure/dictionary"
)

// NotFoundMessage is the payload message for unknown routes
const NotFoundMessage = "Page not found"

// Payload is what a page route resolves to
type Payload struct {
	Route    string               `json:"route"`
	Status   int                  `json:"status"`
	Articles []dictionary.Article `json:"articles,omitempty"`
	Message  string               `json:"message,omitempty"`
}

// Dispatch maps a page path to its payload. params is accepted for
// future routes and currently ignored.
func Dispatch(path string, params url.Values) Payload {
	dict := dictionary.New()

	var articles []dictionary.Article
	switch path {
	case "/":
		articles = dict.GetArticles()
	case "/about":
		articles = dict.GetAbout()
	case "/projects":
		articles = dict.GetProjects()
	case "/article":
		articles = dict.GetArticle()
	default:
		return Payload{Route: path, Status: http.StatusNotFound, Message: NotFoundMessage}
	}

	return Payload{Route: path, Status: http.StatusOK, Articles: articles}
}
