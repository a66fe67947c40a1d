package utils

import (
	"fmt"
	"net/http"
	"strings"
)

// AddToLogMessage appends one entry to a request's log message.
func AddToLogMessage(logMessagesBuilder *strings.Builder, strToAdd string) {
	logMessagesBuilder.WriteString(strToAdd)
	logMessagesBuilder.WriteString(";")
	logMessagesBuilder.WriteString("\n")
}

// StartLogMessage opens a request's log message with the API tag and the
// request id assigned by RequestLogMiddleware.
func StartLogMessage(r *http.Request, api string) *strings.Builder {
	var logMessageBuilder strings.Builder
	AddToLogMessage(&logMessageBuilder, api)
	if id := RequestIDFromContext(r.Context()); id != "" {
		AddToLogMessage(&logMessageBuilder, "request_id="+id)
	}
	return &logMessageBuilder
}

// FlushLogMessage prints the accumulated log message in one write so
// concurrent requests do not interleave.
func FlushLogMessage(logMessageBuilder *strings.Builder) {
	fmt.Print(logMessageBuilder.String())
}
