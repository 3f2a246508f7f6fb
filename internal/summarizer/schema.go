package summarizer

import (
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// Response format identifiers sent with every request.
const (
	SchemaName        = "news_summary_schema"
	SchemaDescription = "A schema for news article summaries"
)

// closed is the additionalProperties value for objects that accept no
// fields beyond their declared properties.
var closed = false

// Schema returns the structured-output schema of a summary:
//
//	{"news_summary": {"topic": string, "articles": [{"headline": string,
//	  "key_points": [string], "source": {"title": string, "url": string}}]}}
//
// Every field is required and no object admits extra properties.
func Schema() *jsonschema.Definition {
	source := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"title": {Type: jsonschema.String},
			"url":   {Type: jsonschema.String},
		},
		Required:             []string{"title", "url"},
		AdditionalProperties: closed,
	}

	article := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"headline": {Type: jsonschema.String},
			"key_points": {
				Type:  jsonschema.Array,
				Items: &jsonschema.Definition{Type: jsonschema.String},
			},
			"source": source,
		},
		Required:             []string{"headline", "key_points", "source"},
		AdditionalProperties: closed,
	}

	summary := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"topic": {Type: jsonschema.String},
			"articles": {
				Type:  jsonschema.Array,
				Items: &article,
			},
		},
		Required:             []string{"topic", "articles"},
		AdditionalProperties: closed,
	}

	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"news_summary": summary,
		},
		Required:             []string{"news_summary"},
		AdditionalProperties: closed,
	}
}

// ResponseFormat returns the strict json_schema response format.
func ResponseFormat() *openai.ChatCompletionResponseFormat {
	return &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
			Name:        SchemaName,
			Description: SchemaDescription,
			Schema:      Schema(),
			Strict:      true,
		},
	}
}
