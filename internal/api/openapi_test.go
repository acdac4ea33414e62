package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
)

func TestDocumentValid(t *testing.T) {
	doc := Document("test")
	if err := doc.Validate(context.Background()); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if doc.Paths.Find("/hello") == nil {
		t.Fatalf("missing /hello")
	}
}

func TestOpenAPIHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	OpenAPIHandler("test")(rr, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("want 200 got %d", rr.Code)
	}
	doc, err := openapi3.NewLoader().LoadFromData(rr.Body.Bytes())
	if err != nil {
		t.Fatalf("load served document: %v", err)
	}
	if doc.Info.Title != "spahost" {
		t.Fatalf("title = %q", doc.Info.Title)
	}
}
