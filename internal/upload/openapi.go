package upload

import "github.com/JaimeStill/scribe/pkg/openapi"

type spec struct {
	Submit  *openapi.Operation
	State   *openapi.Operation
	Schemas map[string]*openapi.Schema
}

// Spec documents the upload endpoints.
var Spec = spec{
	Submit: &openapi.Operation{
		Summary:     "Submit an audio file",
		Description: "Runs presign, transfer and invoke for the uploaded file and returns the decoded note.",
		Tags:        []string{"Uploads"},
		RequestBody: openapi.RequestBodyMultipart(FormField, "Audio recording"),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Workflow completed", "SubmitResponse"),
			400: openapi.ResponseRef("BadRequest"),
			409: openapi.ResponseRef("Conflict"),
			413: openapi.ResponseRef("PayloadTooLarge"),
			415: openapi.ResponseRef("UnsupportedMediaType"),
			502: openapi.ResponseRef("BadGateway"),
		},
	},
	State: &openapi.Operation{
		Summary:   "Current session state",
		Tags:      []string{"Uploads"},
		Responses: map[int]*openapi.Response{200: openapi.ResponseJSON("Session snapshot", "Snapshot")},
	},
	Schemas: map[string]*openapi.Schema{
		"State": {
			Type: "string",
			Enum: []any{"idle", "in-progress", "completed", "failed"},
		},
		"FileInfo": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"name":        {Type: "string"},
				"contentType": {Type: "string", Example: DefaultMediaType},
				"size":        {Type: "integer", Description: "Size in bytes"},
			},
		},
		"Result": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"contract":       {Type: "string", Enum: []any{"structured", "document"}},
				"transcript":     {Type: "string"},
				"soapNote":       {Type: "string"},
				"noteLocation":   {Type: "string", Format: "uri"},
				"document":       {Type: "string", Format: "uri"},
				"message":        {Type: "string"},
				"processingTime": {Type: "string"},
			},
			Required: []string{"contract"},
		},
		"View": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"mode":           {Type: "string", Enum: []any{"placeholder", "note", "document"}},
				"prompt":         {Type: "string"},
				"transcript":     {Type: "string"},
				"soapNote":       {Type: "string"},
				"downloadUrl":    {Type: "string", Format: "uri"},
				"embedUrl":       {Type: "string", Format: "uri"},
				"message":        {Type: "string"},
				"processingTime": {Type: "string"},
			},
			Required: []string{"mode"},
		},
		"SubmitResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"state":   openapi.SchemaRef("State"),
				"attempt": {Type: "string", Format: "uuid"},
				"result":  openapi.SchemaRef("Result"),
				"view":    openapi.SchemaRef("View"),
			},
		},
		"Snapshot": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"state":   openapi.SchemaRef("State"),
				"file":    openapi.SchemaRef("FileInfo"),
				"attempt": {Type: "string", Format: "uuid"},
				"result":  openapi.SchemaRef("Result"),
				"error":   {Type: "string"},
			},
			Required: []string{"state"},
		},
	},
}
