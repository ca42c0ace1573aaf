package api

const (
	// HeaderProcessID is header for ProcessID
	HeaderProcessID = "x-process-id"
	// HeaderCorrelationID is header for CorrelationID
	HeaderCorrelationID = "x-correlation-id"
	// HeaderUserID is header for the user a conversational run is made for
	HeaderUserID = "x-user-id"
)
