// Package romi contains the telemetry wire messages.
package romi

//go:generate protoc --go_out=paths=source_relative:. telemetry.proto
