// Package navigator provides a retrieval-augmented question answering
// pipeline over web content. It scans seed pages for links, fetches and
// cleans the selected documents, splits them into passages, embeds them
// into a vector index and answers questions against that index with a
// configurable language model.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, ollama/).
package navigator
