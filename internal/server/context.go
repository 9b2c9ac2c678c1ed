package server

import "net/http"

type contextKey string

const contextKeyRequestID contextKey = "requestID"

// requestID returns the id assigned by requestIDMiddleware, if any.
func requestID(r *http.Request) string {
	id, _ := r.Context().Value(contextKeyRequestID).(string)
	return id
}
