// Package pipeline runs the steps of a newsbrief run in sequence.
//
// A run goes through four steps: harvest search results, collect article
// text, summarize the articles and render the summary. Each step reads what
// earlier steps stored in the model.Run and adds its own result, so steps
// can be tested and replaced one at a time.
package pipeline
