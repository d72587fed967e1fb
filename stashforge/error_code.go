package stashforge

const (
	// INVALID_ARGUMENT_ERROR_CODE represents an error for invalid input arguments.
	INVALID_ARGUMENT_ERROR_CODE = 3
	// NOT_FOUND_ERROR_CODE represents an error for a resource not being found.
	NOT_FOUND_ERROR_CODE = 5
	// RESOURCE_EXHAUSTED_ERROR_CODE represents an error for a rate or quota limit being hit.
	RESOURCE_EXHAUSTED_ERROR_CODE = 8
	// FAILED_PRECONDITION_ERROR_CODE represents an error for a failed precondition.
	FAILED_PRECONDITION_ERROR_CODE = 9
	// INTERNAL_ERROR_CODE represents an internal server error.
	INTERNAL_ERROR_CODE = 13
	// UNAVAILABLE_ERROR_CODE represents an error for a backing service being unavailable.
	UNAVAILABLE_ERROR_CODE = 14
	// UNAUTHENTICATED_ERROR_CODE represents an error for a missing or invalid identity.
	UNAUTHENTICATED_ERROR_CODE = 16
)
