package datasource

import "fmt"

// FallbackErrorMessage is shown when the provider fails without an error message of its own
const FallbackErrorMessage = "エラーが発生しました"

// ProviderError is returned when the provider answers with a non-success status
type ProviderError struct {
	StatusCode int
	Code       int    // provider specific error code, 0 if absent
	Message    string // provider message or FallbackErrorMessage
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error (status %d): %s", e.StatusCode, e.Message)
}
