package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("DECK_TEST_HOST", "db.internal")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "env var set",
			in:   "host: ${DECK_TEST_HOST}",
			want: "host: db.internal",
		},
		{
			name: "env var set overrides default",
			in:   "host: ${DECK_TEST_HOST:fallback}",
			want: "host: db.internal",
		},
		{
			name: "default used when unset",
			in:   "port: ${DECK_TEST_PORT:5432}",
			want: "port: 5432",
		},
		{
			name: "empty default",
			in:   "password: ${DECK_TEST_PASSWORD:}",
			want: "password: ",
		},
		{
			name: "unset without default keeps placeholder",
			in:   "key: ${DECK_TEST_MISSING}",
			want: "key: ${DECK_TEST_MISSING}",
		},
		{
			name: "multiple placeholders",
			in:   "${DECK_TEST_HOST}:${DECK_TEST_PORT:5432}",
			want: "db.internal:5432",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandEnv(tt.in))
		})
	}
}
