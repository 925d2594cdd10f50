package app

import (
	"errors"
	"fmt"
	"testing"

	"series-go/internal/series"
)

func TestNewOperation(t *testing.T) {
	tests := []struct {
		name       string
		operation  string
		parameters string
	}{
		{
			name:       "with parameters",
			operation:  "CreateCase",
			parameters: "alpha",
		},
		{
			name:       "empty parameters",
			operation:  "Reset",
			parameters: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := NewOperation("inv-1", tt.operation, tt.parameters)

			if op.Operation != tt.operation {
				t.Errorf("Operation = %q, want %q", op.Operation, tt.operation)
			}
			if op.Parameters != tt.parameters {
				t.Errorf("Parameters = %q, want %q", op.Parameters, tt.parameters)
			}
			if op.InvocationID != "inv-1" {
				t.Errorf("InvocationID = %q, want inv-1", op.InvocationID)
			}
			if op.Status != StatusSuccess {
				t.Errorf("Status = %q, want %q", op.Status, StatusSuccess)
			}
			if op.Persisted() {
				t.Error("new operation reports persisted")
			}
		})
	}
}

func TestOperation_Record(t *testing.T) {
	aborted := fmt.Errorf("building: %w", series.ErrAborted)
	failed := errors.New("disk full")

	tests := []struct {
		name   string
		errs   []error
		want   string
		commit bool
	}{
		{name: "success", errs: []error{nil, nil}, want: StatusSuccess, commit: true},
		{name: "aborted", errs: []error{nil, aborted}, want: StatusAborted},
		{name: "error", errs: []error{failed}, want: StatusError},
		{name: "error wins over abort", errs: []error{aborted, failed}, want: StatusError},
		{name: "abort keeps error", errs: []error{failed, aborted}, want: StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := NewOperation("inv", "Build", "")
			for _, err := range tt.errs {
				op.Record(err)
			}
			if op.Status != tt.want {
				t.Errorf("Status = %q, want %q", op.Status, tt.want)
			}
			if op.Committable() != tt.commit {
				t.Errorf("Committable() = %v, want %v", op.Committable(), tt.commit)
			}
		})
	}
}
