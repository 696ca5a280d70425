package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	reg := Default()

	assert.Equal(t, []string{"dns", "http", "ping", "tcp", "uptime"}, reg.Keys())

	ping, ok := reg.Lookup("ping")
	require.True(t, ok)
	assert.Equal(t, Checked, ping.Variant)

	uptime, ok := reg.Lookup("uptime")
	require.True(t, ok)
	assert.Equal(t, NoConfig, uptime.Variant)

	_, ok = reg.Lookup("netflow")
	assert.False(t, ok)
}

func TestSchemaProperty(t *testing.T) {
	reg := Default()
	tcp, ok := reg.Lookup("tcp")
	require.True(t, ok)

	ports, ok := tcp.Property("checkPorts")
	require.True(t, ok)
	assert.Equal(t, []any{}, ports.Default)

	_, ok = tcp.Property("bogus")
	assert.False(t, ok)
}

func TestFloatRange(t *testing.T) {
	validate := FloatRange(0, 60)

	tests := []struct {
		name    string
		value   any
		wantErr bool
	}{
		{name: "float in range", value: 5.5, wantErr: false},
		{name: "int in range", value: 30, wantErr: false},
		{name: "upper bound inclusive", value: 60.0, wantErr: false},
		{name: "lower bound exclusive", value: 0, wantErr: true},
		{name: "above range", value: 60.1, wantErr: true},
		{name: "negative", value: -1, wantErr: true},
		{name: "not a number", value: "5", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(tt.value, "ping", "timeout")
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), `"timeout"`)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPortList(t *testing.T) {
	validate := PortList()

	tests := []struct {
		name    string
		value   any
		wantErr string
	}{
		{name: "empty list", value: []any{}},
		{name: "valid ports", value: []any{22, 80, 443}},
		{name: "float-encoded port", value: []any{443.0}},
		{name: "not a list", value: 80, wantErr: "must be a list"},
		{name: "port zero", value: []any{0}, wantErr: "out of range"},
		{name: "port too large", value: []any{70000}, wantErr: "out of range"},
		{name: "duplicate port", value: []any{80, 80}, wantErr: "duplicate"},
		{name: "fractional port", value: []any{80.5}, wantErr: "must be integers"},
		{name: "string port", value: []any{"80"}, wantErr: "must be integers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(tt.value, "tcp", "checkPorts")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAddressList(t *testing.T) {
	validate := AddressList()

	assert.NoError(t, validate([]any{"10.0.0.1", "dns.example.com"}, "dns", "nameServers"))
	assert.Error(t, validate([]any{""}, "dns", "nameServers"))
	assert.Error(t, validate([]any{"10.0.0.1 extra"}, "dns", "nameServers"))
	assert.Error(t, validate([]any{42}, "dns", "nameServers"))
	assert.Error(t, validate("10.0.0.1", "dns", "nameServers"))
}

func TestURIList(t *testing.T) {
	validate := URIList()

	assert.NoError(t, validate([]any{"http://example.com", "https://example.com/health"}, "http", "uris"))
	assert.Error(t, validate([]any{"ftp://example.com"}, "http", "uris"))
	assert.Error(t, validate([]any{"example.com"}, "http", "uris"))
	assert.Error(t, validate([]any{"https:// space.example"}, "http", "uris"))
}

func TestVocabularies(t *testing.T) {
	assert.True(t, ValidKind("Host"))
	assert.True(t, ValidKind("Asset"))
	assert.False(t, ValidKind("Satellite"))

	assert.True(t, ValidMode("normal"))
	assert.True(t, ValidMode("maintenance"))
	assert.True(t, ValidMode("disabled"))
	assert.False(t, ValidMode("offline"))
}
