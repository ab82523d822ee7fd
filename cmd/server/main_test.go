package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSwaggerURL(t *testing.T) {
	tests := []struct {
		host, port, want string
	}{
		{"", "8080", "http://localhost:8080/swagger/index.html"},
		{"api.example.com", "8080", "http://api.example.com/swagger/index.html"},
		{"https://api.example.com/", "8080", "https://api.example.com/swagger/index.html"},
		{"http://localhost:5000", "8080", "http://localhost:5000/swagger/index.html"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, swaggerURL(tt.host, tt.port))
	}
}
