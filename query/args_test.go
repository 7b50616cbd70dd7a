package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCommand(t *testing.T) {
	tests := []struct {
		name    string
		command string
		args    []any
		want    string
	}{
		{
			name:    "no arguments",
			command: "quit",
			want:    "quit",
		},
		{
			name:    "integer argument",
			command: "use",
			args:    []any{1},
			want:    "use 1",
		},
		{
			name:    "string arguments are not escaped",
			command: "login",
			args:    []any{"serveradmin", "password"},
			want:    "login serveradmin password",
		},
		{
			name:    "params keep their order",
			command: "serveredit",
			args: []any{Params{
				P("virtualserver_name", "tsjoin"),
				P("virtualserver_welcomemessage", "Welcome message"),
			}},
			want: `serveredit virtualserver_name=tsjoin virtualserver_welcomemessage=Welcome\smessage`,
		},
		{
			name:    "numeric param",
			command: "serverstop",
			args:    []any{P("sid", 1)},
			want:    "serverstop sid=1",
		},
		{
			name:    "map keys are sorted",
			command: "clientmove",
			args:    []any{map[string]any{"cid": 5, "clid": 3}},
			want:    "clientmove cid=5 clid=3",
		},
		{
			name:    "string map",
			command: "sendtextmessage",
			args:    []any{map[string]string{"msg": "hi there"}},
			want:    `sendtextmessage msg=hi\sthere`,
		},
		{
			name:    "mixed arguments keep input order",
			command: "clientkick",
			args:    []any{P("clid", uint16(7)), "-force", int64(4)},
			want:    "clientkick clid=7 -force 4",
		},
		{
			name:    "value kinds",
			command: "x",
			args: []any{Params{
				P("b", true),
				P("f", 1.5),
				P("n", nil),
				P("d", 2*time.Second),
			}},
			want: "x b=true f=1.5 n= d=2s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatCommand(tt.command, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatCommand_UnsupportedArgument(t *testing.T) {
	_, err := FormatCommand("use", 1, 2.5)
	require.Error(t, err)

	var argErr *ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "use", argErr.Command)
	assert.Equal(t, 1, argErr.Index)
	assert.Equal(t, 2.5, argErr.Value)
	assert.False(t, ShouldRetry(err))
}
