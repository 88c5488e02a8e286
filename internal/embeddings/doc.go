// Package embeddings turns text into fixed-length vectors for semantic matching.
//
// A Service owns one lazily loaded Provider and a bounded cache of vectors keyed
// by (kind, id, content version). The cache evicts in insertion order and lookups
// never refresh an entry, so a stale version simply ages out.
//
// Providers:
//   - FastEmbedProvider runs a local ONNX model (requires cgo).
//   - OllamaProvider calls the /api/embed endpoint of an Ollama server.
package embeddings
