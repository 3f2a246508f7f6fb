// Package model defines the data passed between the newsbrief stages.
//
// This package contains the following main types:
//   - Candidate: a (title, url) pair harvested from a search result page
//   - CollectedArticle: a candidate whose text was permissibly retrieved
//   - Outcome: the explicit per-candidate result of collection
//   - SummaryResult: the structured summary returned by the model service
//   - Run: the state of one run, threaded through the pipeline
//
// Keeping the types in their own package lets search, collector,
// summarizer and render share them without import cycles.
package model
