package mysql

import (
	"context"
	"testing"

	"github.com/querypad/querypad/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMySQLDSN(t *testing.T) {
	tests := []struct {
		name     string
		config   adapter.Config
		expected string
	}{
		{
			name: "basic connection",
			config: adapter.Config{
				Host:     "localhost",
				Port:     3306,
				Database: "testdb",
				Username: "user",
				Password: "pass",
			},
			expected: "user:pass@tcp(localhost:3306)/testdb?parseTime=true",
		},
		{
			name: "defaults",
			config: adapter.Config{
				Database: "mydb",
			},
			expected: "tcp(localhost:3306)/mydb?parseTime=true",
		},
		{
			name: "username without password",
			config: adapter.Config{
				Host:     "db.example.com",
				Port:     3307,
				Database: "analytics",
				Username: "analyst",
			},
			expected: "analyst@tcp(db.example.com:3307)/analytics?parseTime=true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := buildMySQLDSN(tt.config)
			assert.Equal(t, tt.expected, dsn)
		})
	}
}

func TestNew(t *testing.T) {
	adp := New(nil)

	assert.NotNil(t, adp, "New() should return non-nil adapter")
	assert.False(t, adp.IsConnected(), "should not be connected initially")
	assert.Equal(t, "mysql", adp.Dialect())

	var _ adapter.Adapter = adp
}

func TestAdapter_NotConnected(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)

	_, err := adp.Query(ctx, "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not established")

	_, err = adp.ListTables(ctx)
	require.Error(t, err)
}

func TestAdapter_Registry(t *testing.T) {
	assert.True(t, adapter.IsRegistered("mysql"), "mysql adapter should be registered")

	factory, ok := adapter.Get("mysql")
	require.True(t, ok)

	adp := factory(nil)
	require.NotNil(t, adp)
	my, ok := adp.(*Adapter)
	require.True(t, ok, "factory should return *Adapter")
	assert.Equal(t, "mysql", my.Dialect())
}
