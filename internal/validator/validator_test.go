package validator

import (
	"strings"
	"testing"
)

type sample struct {
	Port     string `validate:"port"`
	Name     string `validate:"required,notblank"`
	LogLevel string `validate:"loglevel"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		in      sample
		wantErr string
	}{
		{name: "valid", in: sample{Port: "8080", Name: "x", LogLevel: "debug"}},
		{name: "port out of range", in: sample{Port: "70000", Name: "x", LogLevel: "INFO"}, wantErr: "Port must be a port number"},
		{name: "port not a number", in: sample{Port: "http", Name: "x", LogLevel: "INFO"}, wantErr: "Port must be a port number"},
		{name: "blank name", in: sample{Port: "80", Name: "   ", LogLevel: "INFO"}, wantErr: "Name must not be blank"},
		{name: "unknown level", in: sample{Port: "80", Name: "x", LogLevel: "TRACE"}, wantErr: "LogLevel must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestStruct_JoinsAllErrors(t *testing.T) {
	err := Struct(sample{Port: "0", Name: "", LogLevel: "nope"})
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"Port", "Name is required", "LogLevel"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %q", want, err.Error())
		}
	}
}
