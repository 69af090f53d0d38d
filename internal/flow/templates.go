package flow

import (
	"html/template"
	"net/http"

	"github.com/golden-vcr/twitter-auth/internal/twitter"
)

// The three pages the flow can produce: all values interpolated into them
// (including API error bodies returned by Twitter) are escaped by
// html/template
var (
	authorizeTemplate = template.Must(template.New("authorize").Parse(
		`<!DOCTYPE html><html><head><title>Connect to Twitter</title></head><body><h1>Connect to Twitter</h1><p><a href="{{.AuthorizationURL}}">Authorize this app to access your Twitter account</a></p></body></html>`,
	))
	successTemplate = template.Must(template.New("success").Parse(
		`<!DOCTYPE html><html><head><title>OK</title></head><body><h1>Success!</h1><p>You are authenticated as <strong>{{.DisplayName}}</strong>.</p></body></html>`,
	))
	failureTemplate = template.Must(template.New("failure").Parse(
		`<!DOCTYPE html><html><head><title>Error</title></head><body><h1>Twitter API call failed</h1><p>Got response {{.StatusCode}}:</p><pre>{{.Body}}</pre></body></html>`,
	))
)

func renderAuthorizeLink(res http.ResponseWriter, authorizationURL string) {
	res.Header().Set("Content-Type", "text/html; charset=utf-8")
	authorizeTemplate.Execute(res, struct {
		AuthorizationURL string
	}{authorizationURL})
}

func renderSuccess(res http.ResponseWriter, displayName string) {
	res.Header().Set("Content-Type", "text/html; charset=utf-8")
	successTemplate.Execute(res, struct {
		DisplayName string
	}{displayName})
}

func renderFailure(res http.ResponseWriter, apiErr *twitter.APIError) {
	res.Header().Set("Content-Type", "text/html; charset=utf-8")
	failureTemplate.Execute(res, struct {
		StatusCode int
		Body       string
	}{apiErr.StatusCode, apiErr.Body})
}
