// Package render writes summaries and run progress to the terminal.
//
// Summaries are written by a Writer:
//   - MarkdownWriter: headline sections with key points and a source link
//   - JSONWriter: the {"news_summary": ...} document for other tools
//
// Console reports progress, skipped candidates and errors while a run is
// in flight. It never writes the summary itself.
package render
