package handler

import (
	"net/http"

	"mon-mentale-api/pkg/response"
)

// StubHandler answers the reserved resource routes (messages, documents,
// notifications, reviews) that clients already probe but that have no
// backend yet.
type StubHandler struct{}

func NewStubHandler() *StubHandler {
	return &StubHandler{}
}

func (h *StubHandler) NotImplemented(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusNotImplemented, response.Response{
		Success: false,
		Message: "This resource is not available yet",
	})
}
