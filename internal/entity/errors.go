package entity

import "errors"

// Domain errors
var (
	// Document errors
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrEmptyDocument       = errors.New("document contains no extractable text")
	ErrFileTooLarge        = errors.New("file too large")
	ErrMissingFilename     = errors.New("filename is required")
	ErrDocumentNotFound    = errors.New("document not found")

	// Conversation errors
	ErrConversationNotFound = errors.New("conversation not found")

	// Capability errors: a collaborator is not configured, as opposed to failing
	ErrVectorStoreDisabled = errors.New("vector store is not configured")
	ErrLLMDisabled         = errors.New("language model is not configured")
	ErrRegistryDisabled    = errors.New("document registry is not configured")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidParameter = errors.New("invalid parameter")
)
