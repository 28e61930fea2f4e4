// Package retrieval calls the knowledge retrieval collaborator: given a
// prompt and a knowledge base id it returns generated text plus the
// source contexts the generation drew from. Filter maps narrow the
// searched documents by metadata.
package retrieval
