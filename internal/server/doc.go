// Package server implements the HTTP API of the assistant
//
// This package provides the streaming chat endpoint (over HTTP and
// WebSocket), the workflow generation service, and health checks
package server
