package api

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/gaspardpetit/spahost/core/logx"
)

// Document describes the public HTTP surface.
func Document(version string) *openapi3.T {
	message := openapi3.NewObjectSchema().
		WithProperty("message", openapi3.NewStringSchema()).
		WithRequired([]string{"message"})
	messageRef := openapi3.NewSchemaRef("#/components/schemas/Message", message)

	hello := openapi3.NewOperation()
	hello.OperationID = "getHello"
	hello.Summary = "Return a greeting"
	hello.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Greeting").WithJSONSchemaRef(messageRef),
		}),
	)

	static := openapi3.NewOperation()
	static.OperationID = "getAsset"
	static.Summary = "Serve a bundled file or the application index document"
	static.Parameters = openapi3.Parameters{
		&openapi3.ParameterRef{Value: openapi3.NewPathParameter("asset").
			WithDescription("Path of a bundled file or a client-side route").
			WithSchema(openapi3.NewStringSchema())},
	}
	static.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("File contents or index document"),
		}),
		openapi3.WithStatus(http.StatusNotFound, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("No such file"),
		}),
	)

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: "spahost", Version: version},
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{"Message": &openapi3.SchemaRef{Value: message}},
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/hello", &openapi3.PathItem{Get: hello}),
			openapi3.WithPath("/{asset}", &openapi3.PathItem{Get: static}),
		),
	}
}

// OpenAPIHandler serves the OpenAPI document as JSON.
func OpenAPIHandler(version string) http.HandlerFunc {
	b, err := Document(version).MarshalJSON()
	if err != nil {
		panic(err)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(b); err != nil {
			logx.Log.Error().Err(err).Msg("write openapi")
		}
	}
}
