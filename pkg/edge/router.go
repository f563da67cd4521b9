// Package edge models the viewer-request rewrite that runs on the CloudFront edge.
//
// The deployed rule is CloudFront Functions JavaScript rendered by FunctionCode. The Go
// types mirror the CloudFront Functions event structure so the rule can be exercised
// locally with the same inputs the edge runtime sees.
package edge

import (
	"encoding/json"
	"strings"
)

// DefaultDocument is the object every request collapses to.
const DefaultDocument = "index.pdf"

// DocumentURI is the request path every request is rewritten to.
const DocumentURI = "/" + DefaultDocument

// Value is a single query string, header or cookie value.
type Value struct {
	Value      string  `json:"value"`
	MultiValue []Value `json:"multiValue,omitempty"`
}

// Request is the request record handed to a viewer-request function.
type Request struct {
	Method      string           `json:"method"`
	URI         string           `json:"uri"`
	QueryString map[string]Value `json:"querystring"`
	Headers     map[string]Value `json:"headers"`
	Cookies     map[string]Value `json:"cookies"`
}

// Context describes the distribution and event that produced a request.
type Context struct {
	DistributionDomainName string `json:"distributionDomainName"`
	DistributionID         string `json:"distributionId"`
	EventType              string `json:"eventType"`
	RequestID              string `json:"requestId"`
}

// Viewer identifies the client.
type Viewer struct {
	IP string `json:"ip"`
}

// Event is the full CloudFront Functions event.
type Event struct {
	Version string  `json:"version"`
	Context Context `json:"context"`
	Viewer  Viewer  `json:"viewer"`
	Request Request `json:"request"`
}

// Router rewrites a viewer request.
type Router func(Request) Request

// Rewrite returns req with its URI replaced by DocumentURI.
//
// Method, query string, headers and cookies pass through unchanged. The input is
// never mutated; maps are shared with the returned value.
func Rewrite(req Request) Request {
	req.URI = DocumentURI
	return req
}

// RewriteTo returns a Router that collapses every request onto document.
func RewriteTo(document string) Router {
	uri := DocumentPath(document)
	return func(req Request) Request {
		req.URI = uri
		return req
	}
}

// Handle models the deployed handler for DefaultDocument.
func Handle(event Event) Request {
	return Rewrite(event.Request)
}

// HandleWith models the handler FunctionCode(document) renders.
func HandleWith(document string) func(Event) Request {
	route := RewriteTo(document)
	return func(event Event) Request {
		return route(event.Request)
	}
}

// DocumentPath normalizes a document name into an absolute request path.
//
// An empty name falls back to DefaultDocument.
func DocumentPath(document string) string {
	document = strings.TrimSpace(document)
	document = strings.TrimLeft(document, "/")
	if document == "" {
		document = DefaultDocument
	}
	return "/" + document
}

const functionTemplate = `function handler(event) {
    var request = event.request;
    request.uri = %s;
    return request;
}
`

// FunctionCode renders the CloudFront Functions source for the rewrite to document.
//
// The path is emitted as a JSON string literal, which is also a valid JavaScript
// string literal, so document names cannot escape it.
func FunctionCode(document string) string {
	literal, err := json.Marshal(DocumentPath(document))
	if err != nil {
		literal = []byte(`"` + DocumentURI + `"`)
	}
	return strings.Replace(functionTemplate, "%s", string(literal), 1)
}
