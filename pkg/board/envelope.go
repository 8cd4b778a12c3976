package board

import (
	"github.com/eshaffer321/board-go/internal/transport"
)

// Envelope is the uniform result of every request: {ok, status, data}
type Envelope = transport.Envelope

// Body is the decoded payload of an envelope
type Body = transport.Body

// BodyKind tells which shape a Body has
type BodyKind = transport.BodyKind

// Body kinds
const (
	BodyEmpty        = transport.BodyEmpty
	BodyJSON         = transport.BodyJSON
	BodyText         = transport.BodyText
	BodyDecodeError  = transport.BodyDecodeError
	BodyNetworkError = transport.BodyNetworkError
)

// Request describes one logical API call
type Request = transport.Request

// RequestOption adjusts a single request
type RequestOption = transport.RequestOption

// Multipart is a replayable multipart/form-data body
type Multipart = transport.Multipart

// NewMultipart creates an empty form
func NewMultipart() *Multipart {
	return transport.NewMultipart()
}

// WithoutAuthRecovery returns a 401 as is instead of refreshing and replaying
func WithoutAuthRecovery() RequestOption {
	return transport.WithoutAuthRecovery()
}

// WithHeader sets a header on a single request
func WithHeader(key, value string) RequestOption {
	return transport.WithHeader(key, value)
}

// WithRequestID sets the X-Request-ID of a single request
func WithRequestID(id string) RequestOption {
	return transport.WithRequestID(id)
}
