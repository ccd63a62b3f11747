// Package schemas holds the JSON Schema documents describing backend payloads.
package schemas

import "embed"

// Schema file names, relative to FS.
const (
	QuestionList       = "question_list.schema.json"
	RecommendationList = "recommendation_list.schema.json"
	GenerateResponse   = "generate_response.schema.json"
	AuthResponse       = "auth_response.schema.json"
)

// FS contains every schema file shipped with the client.
//
//go:embed *.schema.json
var FS embed.FS

// All lists the embedded schema names.
func All() []string {
	return []string{QuestionList, RecommendationList, GenerateResponse, AuthResponse}
}
