package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	other := errors.New("connection refused")
	serialization := &pq.Error{Code: "40001"}

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"record not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"wrapped not found", fmt.Errorf("query: %w", gorm.ErrRecordNotFound), ErrNotFound},
		{"gorm duplicate", gorm.ErrDuplicatedKey, ErrDuplicate},
		{"postgres unique violation", &pq.Error{Code: "23505"}, ErrDuplicate},
		{"postgres other error", serialization, serialization},
		{"unknown", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, translate(tt.in))
		})
	}
}
