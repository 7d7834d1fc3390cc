package openapi

import "maps"

// errorSchema matches the body written by handlers.RespondError.
var errorSchema = &Schema{
	Type: "object",
	Properties: map[string]*Schema{
		"error":  {Type: "string", Description: "Error message"},
		"status": {Type: "integer", Description: "HTTP status code"},
	},
	Required: []string{"error", "status"},
}

// NewComponents creates Components with the shared Error schema and the error
// responses every API route may return.
func NewComponents() *Components {
	c := &Components{
		Schemas:   map[string]*Schema{"Error": errorSchema},
		Responses: map[string]*Response{},
	}
	for name, desc := range map[string]string{
		"BadRequest":           "Invalid request",
		"NotFound":             "Resource not found",
		"Conflict":             "Request conflicts with current state",
		"PayloadTooLarge":      "Request body exceeds the configured limit",
		"UnsupportedMediaType": "Media type not accepted",
		"BadGateway":           "Upstream service failed",
	} {
		c.Responses[name] = ResponseJSON(desc, "Error")
	}
	return c
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
